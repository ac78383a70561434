package bak

import (
	"os"
	"path/filepath"
	"strings"
)

type Type uint8

const (
	TypeUnknown Type = iota
	TypeImages
	TypePalette
)

func (t Type) String() string {
	switch t {
	case TypeImages:
		return "Type(Images)"
	case TypePalette:
		return "Type(Palette)"
	}
	return "Type(Unknown)"
}

var extensions = map[string]Type{
	".BMX": TypeImages,
	".PAL": TypePalette,
}

// TypeOf classifies a file by its extension, ignoring case.
func TypeOf(name string) Type {
	return extensions[strings.ToUpper(filepath.Ext(name))]
}

// Mapping describes one file in the data directory.
type Mapping struct {
	Name string
	Type Type
	Size int64
}

// Scan lists the regular files of the data directory in name order.
func (root *Root) Scan() ([]Mapping, error) {
	entries, err := os.ReadDir(root.Path)
	if err != nil {
		return nil, err
	}

	mapping := make([]Mapping, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, err
		}
		mapping = append(mapping, Mapping{
			Name: entry.Name(),
			Type: TypeOf(entry.Name()),
			Size: info.Size(),
		})
	}
	return mapping, nil
}
