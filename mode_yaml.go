package celt

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// modeFile mirrors the on-disk YAML shape for a Mode preset: plain
// integers and two lists of [start, end) pairs, parsed with yaml.v3's
// struct-tag unmarshaling.
type modeFile struct {
	Fs      int     `yaml:"fs"`
	N       int     `yaml:"n"`
	B       int     `yaml:"b"`
	C       int     `yaml:"c"`
	Overlap int     `yaml:"overlap"`
	EBands  [][]int `yaml:"ebands"`
	PBands  [][]int `yaml:"pbands"`
}

func bandsFromPairs(pairs [][]int) ([]Band, error) {
	bands := make([]Band, len(pairs))
	for i, pair := range pairs {
		if len(pair) != 2 {
			return nil, fmt.Errorf("%w: band %d must be a [start, end] pair, got %v", ErrInvalidMode, i, pair)
		}
		bands[i] = Band{Start: pair[0], End: pair[1]}
	}
	return bands, nil
}

// ParseMode decodes a YAML document in the modeFile shape into a
// validated Mode.
func ParseMode(data []byte) (Mode, error) {
	var mf modeFile
	if err := yaml.Unmarshal(data, &mf); err != nil {
		return Mode{}, fmt.Errorf("%w: %v", ErrInvalidMode, err)
	}
	ebands, err := bandsFromPairs(mf.EBands)
	if err != nil {
		return Mode{}, err
	}
	pbands, err := bandsFromPairs(mf.PBands)
	if err != nil {
		return Mode{}, err
	}
	return NewMode(mf.Fs, mf.N, mf.B, mf.C, mf.Overlap, ebands, pbands)
}

// LoadModeFile reads and parses a Mode preset from a YAML file on disk.
func LoadModeFile(path string) (Mode, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Mode{}, fmt.Errorf("%w: reading %s: %v", ErrInvalidMode, path, err)
	}
	return ParseMode(data)
}
