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

// Kind enumerates the commands understood by the dispatcher.
type Kind int

// Enumeration of command kinds.
const (
	Help Kind = iota
	Compile
	Deploy
	Flatten
	Verify
	Info
	Unknown
)

// String implements the stringer interface for Kind.
func (k Kind) String() string {
	return [...]string{"help", "compile", "deploy", "flatten", "verify", "info", "unknown"}[k]
}

// Command is a parsed command line.
type Command struct {
	Kind Kind

	// Network is the target network of deploy and verify. It is empty when
	// not given.
	Network string

	// Name is the first argument as given, used for reporting unknown commands.
	Name string
}

// ParseCommand selects the command from the arguments, program name
// excluded. Command names are matched exactly. No arguments, "help",
// "--help" and "-h" select Help.
//
// Arguments after the network are ignored.
func ParseCommand(args []string) Command {
	if len(args) == 0 {
		return Command{Kind: Help}
	}
	cmd := Command{Name: args[0]}
	switch args[0] {
	case "compile":
		cmd.Kind = Compile
	case "deploy":
		cmd.Kind = Deploy
	case "flatten":
		cmd.Kind = Flatten
	case "verify":
		cmd.Kind = Verify
	case "info":
		cmd.Kind = Info
	case "help", "--help", "-h":
		cmd.Kind = Help
	default:
		cmd.Kind = Unknown
	}
	if (cmd.Kind == Deploy || cmd.Kind == Verify) && len(args) > 1 {
		cmd.Network = args[1]
	}
	return cmd
}
