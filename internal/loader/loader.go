// Package loader discovers model definition files in a project and
// builds validated metadata for each. SQL files carry a MODEL block;
// YAML files carry the same fields as a mapping. Both funnel into
// model.Build.
package loader

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"log/slog"

	"gopkg.in/yaml.v3"

	"github.com/mkilpat/sqlmesh/internal/config"
	"github.com/mkilpat/sqlmesh/internal/parser"
	"github.com/mkilpat/sqlmesh/pkg/model"
)

// LoadedModel pairs a model's metadata with its query and source file.
type LoadedModel struct {
	Meta     *model.ModelMeta
	SQL      string // query content; empty for YAML definitions
	FilePath string
}

// Loader builds models from definition files.
type Loader struct {
	defaults config.ModelDefaults
	logger   *slog.Logger
}

// New returns a Loader applying the given per-model defaults.
func New(defaults config.ModelDefaults, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{defaults: defaults, logger: logger}
}

// LoadDir loads every .sql and .yaml model definition under dir, sorted
// by model name. Files that fail to parse or validate are reported
// together in the returned error; valid models are still returned.
func (l *Loader) LoadDir(dir string) ([]*LoadedModel, error) {
	var models []*LoadedModel
	var errs []error

	walkErr := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".sql", ".yaml", ".yml":
		default:
			return nil
		}

		m, err := l.LoadFile(path)
		if err != nil {
			errs = append(errs, err)
			return nil
		}
		if m != nil {
			models = append(models, m)
		}
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking models dir %s: %w", dir, walkErr)
	}

	sort.Slice(models, func(i, j int) bool {
		return models[i].Meta.Name() < models[j].Meta.Name()
	})
	return models, errors.Join(errs...)
}

// LoadFile loads a single model definition file. SQL files without a
// MODEL block are skipped (nil, nil).
func (l *Loader) LoadFile(path string) (*LoadedModel, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".sql" {
		return l.loadSQL(path, string(content))
	}
	return l.loadYAML(path, content)
}

func (l *Loader) loadSQL(path, content string) (*LoadedModel, error) {
	def, err := parser.ExtractDefinition(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if !def.HasModel {
		l.logger.Debug("skipping file without MODEL block", "path", path)
		return nil, nil
	}

	fields := l.applyDefaults(def.Fields)
	meta, err := model.Build(fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &LoadedModel{Meta: meta, SQL: def.SQL, FilePath: path}, nil
}

func (l *Loader) loadYAML(path string, content []byte) (*LoadedModel, error) {
	var fields map[string]any
	if err := yaml.Unmarshal(content, &fields); err != nil {
		return nil, fmt.Errorf("%s: invalid YAML: %w", path, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}

	meta, err := model.Build(l.applyDefaults(fields))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &LoadedModel{Meta: meta, FilePath: path}, nil
}

// applyDefaults fills fields the definition omitted from the project's
// model defaults.
func (l *Loader) applyDefaults(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields)+4)
	for k, v := range fields {
		out[k] = v
	}
	setDefault(out, "dialect", l.defaults.Dialect)
	setDefault(out, "cron", l.defaults.Cron)
	setDefault(out, "start", l.defaults.Start)
	setDefault(out, "owner", l.defaults.Owner)
	return out
}

func setDefault(fields map[string]any, name, value string) {
	if value == "" {
		return
	}
	if _, ok := fields[name]; !ok {
		fields[name] = value
	}
}
