package main

import (
	"io/ioutil"
	"path/filepath"
	"strings"

	"github.com/brigadecore/brigade-foundations/file"
	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// target is a function to keep warm.
type target struct {
	Name string `csv:"function" yaml:"function"`
	ARN  string `csv:"arn" yaml:"arn"`
}

// loadTargets reads the list of functions to keep warm. Files with a .yaml or
// .yml extension hold a YAML list; anything else is read as CSV with function
// and arn columns.
func loadTargets(path string) ([]target, error) {
	exists, err := file.Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errors.Errorf("file %s does not exist", path)
	}
	targetBytes, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "error reading %s", path)
	}
	targets := []target{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(targetBytes, &targets)
	default:
		err = gocsv.UnmarshalBytes(targetBytes, &targets)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "error parsing %s", path)
	}
	for i, t := range targets {
		if t.ARN == "" {
			return nil, errors.Errorf("entry %d of %s has no arn", i+1, path)
		}
		if t.Name == "" {
			targets[i].Name = t.ARN
		}
	}
	return targets, nil
}
