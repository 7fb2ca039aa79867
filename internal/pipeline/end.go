package pipeline

import (
	"context"
	"encoding/json"
	"maps"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/pluginlit/internal/buildctx"
	"git.home.luguber.info/inful/pluginlit/internal/foundation/errors"
	"git.home.luguber.info/inful/pluginlit/internal/logfields"
)

// ResultFile is the name of the build result written into the build path.
const ResultFile = "buildResult.json"

type end struct{ env *Env }

// End writes the build result file when the build path exists and removes
// every temp path registered on the context. It never exits the process.
func End(env *Env) Task {
	return &end{env: env.withDefaults()}
}

func (t *end) Name() StageName { return StageEnd }

func (t *end) Execute(_ context.Context, bc *buildctx.Context) error {
	if info, err := os.Stat(bc.BuildPath); bc.BuildPath != "" && err == nil && info.IsDir() {
		if err := writeResult(bc); err != nil {
			return err
		}
		t.env.Logger.Info("Wrote build result", logfields.Path(filepath.Join(bc.BuildPath, ResultFile)))
	}

	for _, p := range bc.TempPaths {
		if err := os.RemoveAll(p); err != nil {
			t.env.Logger.Warn("Cannot remove temp path", logfields.Path(p), logfields.Error(err))
		}
	}
	bc.TempPaths = nil
	return nil
}

// ResultEntries returns the build result: every recorded entry plus the
// build id, channel, version and build of the context.
func ResultEntries(bc *buildctx.Context) map[string]any {
	out := make(map[string]any)
	maps.Copy(out, bc.Results())
	out["buildId"] = bc.BuildID
	out["channel"] = bc.Channel
	out["version"] = bc.VersionName
	out["build"] = bc.Build
	return out
}

func writeResult(bc *buildctx.Context) error {
	data, err := json.MarshalIndent(ResultEntries(bc), "", "  ")
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "cannot encode build result").Build()
	}
	path := filepath.Join(bc.BuildPath, ResultFile)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "cannot write build result").
			WithContext(logfields.KeyPath, path).
			Build()
	}
	return nil
}
