// © 2023 Microglot LLC
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"gopkg.microglot.org/lrengine.go/internal/exc"
	"gopkg.microglot.org/lrengine.go/internal/fs"
	"gopkg.microglot.org/lrengine.go/internal/idl"
)

type globalOpts struct {
	Verbose int
	LogFile string
}

func main() {
	op := &globalOpts{}
	rootCmd := &cobra.Command{
		Use:           "lrengine",
		Short:         "Run table driven LR(1) parsers",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			var path *string
			if op.LogFile != "" {
				path = &op.LogFile
			}
			commonlog.Configure(op.Verbose, path)
		},
	}
	addGlobalFlags(rootCmd.PersistentFlags(), op)

	rootCmd.AddCommand(newCalcCmd())
	rootCmd.AddCommand(newParseCmd())
	rootCmd.AddCommand(newTablesCmd())

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		printErr(err)
		os.Exit(1)
	}
}

func addGlobalFlags(flags *pflag.FlagSet, op *globalOpts) {
	flags.CountVarP(&op.Verbose, "verbose", "v", "Increase log verbosity, repeat for more")
	flags.StringVar(&op.LogFile, "log", "", "Write logs to FILE instead of STDERR")
}

func printErr(err error) {
	var me exc.MultiException
	if errors.As(err, &me) {
		for _, err := range me {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		return
	}
	fmt.Fprintln(os.Stderr, err.Error())
}

// openFiles resolves a command line target. Relative paths are looked up
// under the working directory and absolute ones under the file system root.
// Directories expand to the files they contain.
func openFiles(ctx context.Context, target string, opts ...fs.FileSystemLocalOption) ([]idl.File, error) {
	cwd, err := fs.NewFileSystemLocal(".", opts...)
	if err != nil {
		return nil, err
	}
	root, err := fs.NewFileSystemLocal("/", opts...)
	if err != nil {
		return nil, err
	}
	return fs.FileSystemMulti{cwd, root}.Open(ctx, fs.Normalize(target))
}

func openFile(ctx context.Context, target string) (idl.File, error) {
	files, err := openFiles(ctx, target)
	if err != nil {
		return nil, err
	}
	if len(files) != 1 {
		return nil, exc.Newf(exc.Location{URI: target}, exc.CodeUnsupportedFileFormat, "%s is a directory", target)
	}
	return files[0], nil
}

func writeFile(ctx context.Context, target string, content []byte) error {
	root := "."
	if filepath.IsAbs(target) {
		root = "/"
	}
	local, err := fs.NewFileSystemLocal(root)
	if err != nil {
		return err
	}
	return local.Write(ctx, fs.Normalize(target), string(content))
}
