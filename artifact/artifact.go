// Copyright (c) 2024 - for information on the respective copyright owner
// see the NOTICE file and/or the repository at
// https://github.com/conditional-tokens/ctdeploy
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package artifact inspects the files produced by the delegated toolchain:
// the build artifact JSON and the flattened contract source.
package artifact

import (
	"bytes"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"regexp"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// versionPattern matches the first "version" entry of a build artifact. In
// artifacts written by truffle this is the compiler version.
var versionPattern = regexp.MustCompile(`"version"\s*:\s*"([^"]*)"`)

// ErrNoVersion is returned when the artifact has no version entry.
var ErrNoVersion = errors.New("no compiler version found")

// Exists reports whether a regular file exists at path.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CompilerVersion extracts the compiler version string from the build
// artifact at path, by textual match, without decoding the JSON.
func CompilerVersion(path string) (string, error) {
	content, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		return "", errors.Wrap(err, "reading build artifact")
	}
	match := versionPattern.FindSubmatch(content)
	if match == nil {
		return "", errors.WithMessage(ErrNoVersion, path)
	}
	return string(match[1]), nil
}

// Stats describes the size of a text file.
type Stats struct {
	Size  int64 // In bytes.
	Lines int   // Number of newline characters, as counted by wc -l.
}

// FileStats returns the size and the line count of the file at path.
func FileStats(path string) (Stats, error) {
	content, err := ioutil.ReadFile(filepath.Clean(path))
	if err != nil {
		return Stats{}, errors.Wrap(err, "reading file")
	}
	return Stats{
		Size:  int64(len(content)),
		Lines: bytes.Count(content, []byte("\n")),
	}, nil
}

var (
	kilo = decimal.NewFromInt(1024)
	mega = kilo.Mul(kilo)
)

// HumanSize returns the size in bytes, KB or MB with one decimal place.
func (s Stats) HumanSize() string {
	size := decimal.NewFromInt(s.Size)
	switch {
	case size.LessThan(kilo):
		return fmt.Sprintf("%d B", s.Size)
	case size.LessThan(mega):
		return size.Div(kilo).StringFixed(1) + " KB"
	default:
		return size.Div(mega).StringFixed(1) + " MB"
	}
}
