// Command triggerlint checks use-case types against the execution trigger
// contract without running them.
//
// di.Declare performs the same check at runtime, when the program starts.
// triggerlint finds the problem earlier, from source, so it fits CI and
// pre-commit hooks.
//
// # Usage
//
//	triggerlint check ./...
//	triggerlint check -f json -o report.json ./internal/...
//
// A trailing /... walks the tree. Directories starting with "." or "_", the
// configured skip_dirs and anything the root .gitignore matches are skipped.
//
// A class is any struct used as the type argument of Declare or MustDeclare
// (with or without a package qualifier), plus any type listed in the config.
// Its exported methods are read from source in declaration order, so extra
// methods are reported in the order they were written.
//
// # Config
//
// An optional .triggerlint.yaml:
//
//	types: [legacy.ImportJob]   # check even without a Declare call
//	ignore: [Scratch]           # never check
//	skip_dirs: [vendor, gen]
//	include_tests: false
//	format: text                # text, json or yaml
//
// Exit status is 0 when every class passes, 1 on violations and 2 on usage,
// config or parse errors.
package main
