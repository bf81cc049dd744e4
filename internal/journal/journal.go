package journal

import (
	"path/filepath"

	"go.uber.org/zap"
)

// #region journal

// Stream filenames under the log directory.
const (
	ActionsFile     = "actions.jsonl"
	ReflectionsFile = "reflections.jsonl"
	SupervisorFile  = "supervisor.jsonl"
	MetricsFile     = "metrics.jsonl"
)

// Journal bundles the per-run output streams. Every Write method fails
// soft: a journaling error is logged and swallowed so the simulation never
// dies for a full disk.
type Journal struct {
	actions     *Writer
	reflections *Writer
	supervisor  *Writer
	metrics     *Writer
	log         *zap.Logger
}

// Open creates the four stream writers under dir.
func Open(dir string, log *zap.Logger) (*Journal, error) {
	j := &Journal{log: log}
	var err error
	if j.actions, err = NewWriter(filepath.Join(dir, ActionsFile)); err != nil {
		return nil, err
	}
	if j.reflections, err = NewWriter(filepath.Join(dir, ReflectionsFile)); err != nil {
		j.Close()
		return nil, err
	}
	if j.supervisor, err = NewWriter(filepath.Join(dir, SupervisorFile)); err != nil {
		j.Close()
		return nil, err
	}
	if j.metrics, err = NewWriter(filepath.Join(dir, MetricsFile)); err != nil {
		j.Close()
		return nil, err
	}
	return j, nil
}

func (j *Journal) WriteAction(e ActionEntry) {
	j.writeSoft(j.actions, "actions", e)
}

func (j *Journal) WriteReflection(e ReflectionEntry) {
	j.writeSoft(j.reflections, "reflections", e)
}

func (j *Journal) WriteSupervisor(e SupervisorEntry) {
	j.writeSoft(j.supervisor, "supervisor", e)
}

func (j *Journal) WriteMetrics(v any) {
	j.writeSoft(j.metrics, "metrics", v)
}

func (j *Journal) writeSoft(w *Writer, stream string, v any) {
	if w == nil {
		return
	}
	if err := w.Write(v); err != nil {
		j.log.Warn("journal write failed",
			zap.String("stream", stream),
			zap.Error(err))
	}
}

// Close closes whichever streams are open.
func (j *Journal) Close() {
	for _, w := range []*Writer{j.actions, j.reflections, j.supervisor, j.metrics} {
		if w != nil {
			_ = w.Close()
		}
	}
}

// #endregion journal
