package main

import (
	"encoding/json"
	"os"
)

// RowConfig describes a row's field layout for the "row" subcommand: since
// a RowEngine's DecodeInto needs to know how many fields to split a decoded
// row into, and that count isn't recoverable from the encoded bytes alone,
// it travels alongside the tree as a small JSON sidecar file (mirroring
// this codebase's lineage's JSON tenant-config-file pattern).
type RowConfig struct {
	Fields int `json:"fields"`
}

func loadRowConfig(path string) (RowConfig, error) {
	f, err := os.Open(path)
	if err != nil {
		return RowConfig{}, err
	}
	defer f.Close()

	var cfg RowConfig
	if err := json.NewDecoder(f).Decode(&cfg); err != nil {
		return RowConfig{}, err
	}
	return cfg, nil
}
