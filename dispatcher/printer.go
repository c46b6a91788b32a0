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

package dispatcher

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

var (
	// SPrintf style functions that produce colored text.
	redf    = color.New(color.FgRed).SprintfFunc()
	greenf  = color.New(color.FgGreen).SprintfFunc()
	yellowf = color.New(color.FgYellow).SprintfFunc()
	bluef   = color.New(color.FgBlue, color.Bold).SprintfFunc()
)

// printer writes the status messages of the dispatcher.
type printer struct {
	w io.Writer
}

func (p printer) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.w, format, args...) // nolint: errcheck
}

func (p printer) headingf(format string, args ...interface{}) {
	p.printf("%s\n", bluef(format, args...))
}

func (p printer) successf(format string, args ...interface{}) {
	p.printf("%s\n", greenf("✓ "+format, args...))
}

func (p printer) warnf(format string, args ...interface{}) {
	p.printf("%s\n", yellowf(format, args...))
}

func (p printer) errorf(format string, args ...interface{}) {
	p.printf("%s\n", redf("Error: "+format, args...))
}

// field prints a label value pair of a metadata block.
func (p printer) field(label string, value interface{}) {
	p.printf("  %-18s %v\n", label+":", value)
}
