// Command cryptkeeper generates Encrypt/Decrypt methods for annotated
// structs. It is intended to run through go:generate:
//
//	//go:generate go run github.com/zoobzio/cryptkeeper/cmd/cryptkeeper --out crypt_gen.go
//
// The command scans one package directory for structs carrying a
// //crypt:generate directive, validates the directives, and writes a single
// generated file. Any directive error fails the run with no file written.
package main

import (
	"context"
	"errors"
	"fmt"
	"go/ast"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/tools/go/packages"
	"gopkg.in/yaml.v3"

	"github.com/zoobzio/cryptkeeper/internal/emit"
	"github.com/zoobzio/cryptkeeper/internal/scan"
)

// defaultConfigFile is read when present; an explicit --config must exist.
const defaultConfigFile = ".cryptkeeper.yaml"

// config mirrors the CLI flags; flags win over file values.
type config struct {
	Dir   string   `yaml:"dir"`
	Out   string   `yaml:"out"`
	Types []string `yaml:"types"`
}

func main() {
	if err := newCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newCommand() *cobra.Command {
	var (
		dir        string
		out        string
		types      []string
		configFile string
	)

	cmd := &cobra.Command{
		Use:           "cryptkeeper",
		Short:         "Generate Encrypt/Decrypt methods for annotated structs",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger, err := zap.NewDevelopment()
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			cfg, err := loadConfig(configFile)
			if err != nil {
				logger.Error("load config", zap.Error(err))
				return err
			}
			if cmd.Flags().Changed("dir") || cfg.Dir == "" {
				cfg.Dir = dir
			}
			if cmd.Flags().Changed("out") || cfg.Out == "" {
				cfg.Out = out
			}
			if cmd.Flags().Changed("types") {
				cfg.Types = types
			}

			if err := run(cmd.Context(), logger, cfg); err != nil {
				logger.Error("generation failed", zap.Error(err))
				return err
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dir, "dir", ".", "package directory to scan")
	cmd.Flags().StringVar(&out, "out", "crypt_gen.go", "output file name, relative to --dir")
	cmd.Flags().StringSliceVar(&types, "types", nil, "restrict generation to these struct names")
	cmd.Flags().StringVar(&configFile, "config", "", "config file (default "+defaultConfigFile+" when present)")

	return cmd
}

// loadConfig reads the YAML config file. A missing default file is fine; a
// missing explicit file is not.
func loadConfig(path string) (config, error) {
	var cfg config

	explicit := path != ""
	if !explicit {
		path = defaultConfigFile
	}

	data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func run(ctx context.Context, logger *zap.Logger, cfg config) error {
	pkgName, files, err := loadPackage(ctx, cfg)
	if err != nil {
		return err
	}

	logger.Info("scanning package",
		zap.String("package", pkgName),
		zap.String("dir", cfg.Dir),
	)

	structs, err := scan.Package(ctx, pkgName, files)
	if err != nil {
		return err
	}

	if len(cfg.Types) > 0 {
		structs = slices.DeleteFunc(structs, func(s scan.Struct) bool {
			return !slices.Contains(cfg.Types, s.Name)
		})
	}

	if len(structs) == 0 {
		logger.Info("no annotated structs found, nothing to generate")
		return nil
	}

	src, err := emit.File(ctx, pkgName, structs)
	if err != nil {
		return err
	}

	target := filepath.Join(cfg.Dir, cfg.Out)
	if err := os.WriteFile(target, src, 0o644); err != nil { // #nosec G306 -- generated source
		return err
	}

	logger.Info("generated",
		zap.String("file", target),
		zap.Int("structs", len(structs)),
		zap.Int("bytes", len(src)),
	)
	return nil
}

// loadPackage parses the target package, excluding any previously generated
// output file so regeneration never scans its own artifact.
func loadPackage(ctx context.Context, cfg config) (string, []*ast.File, error) {
	loadCfg := &packages.Config{
		Context: ctx,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
		Dir:     cfg.Dir,
	}

	pkgs, err := packages.Load(loadCfg, ".")
	if err != nil {
		return "", nil, fmt.Errorf("load package: %w", err)
	}
	if len(pkgs) == 0 {
		return "", nil, fmt.Errorf("no package found in %s", cfg.Dir)
	}

	pkg := pkgs[0]
	for _, perr := range pkg.Errors {
		// Only parse errors matter: types are never loaded.
		if perr.Kind == packages.ParseError {
			return "", nil, fmt.Errorf("parse: %s", perr.Msg)
		}
	}

	var files []*ast.File
	for _, file := range pkg.Syntax {
		pos := pkg.Fset.Position(file.Pos())
		if filepath.Base(pos.Filename) == cfg.Out {
			continue
		}
		if strings.HasSuffix(pos.Filename, "_test.go") {
			continue
		}
		files = append(files, file)
	}

	return pkg.Name, files, nil
}
