// Package audit wraps an Editor so every mutating operation is logged
// with its outcome. Reads pass through untouched. Each wrapper carries
// a session id so log lines from concurrent editing sessions can be
// told apart.
package audit

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/easel/pkg/types"
)

// Editor decorates another editor with structured logging. It
// implements types.Editor and delegates everything to the wrapped
// editor, so the remap and all-or-nothing guarantees are whatever the
// wrapped editor provides.
type Editor struct {
	inner   types.Editor
	log     *zap.Logger
	session string
}

// New wraps an editor. A nil logger disables output without changing
// behavior.
func New(inner types.Editor, log *zap.Logger) *Editor {
	if log == nil {
		log = zap.NewNop()
	}
	session := uuid.Must(uuid.NewV7()).String()
	return &Editor{
		inner:   inner,
		log:     log.With(zap.String("session", session)),
		session: session,
	}
}

// Session returns the id attached to every log line from this wrapper.
func (a *Editor) Session() string { return a.session }

// Unwrap returns the decorated editor.
func (a *Editor) Unwrap() types.Editor { return a.inner }

func (a *Editor) Types() []types.Type { return a.inner.Types() }

func (a *Editor) All(ty types.Type) []types.Object { return a.inner.All(ty) }

func (a *Editor) Get(ty types.Type, obj types.Object) (types.Record, error) {
	return a.inner.Get(ty, obj)
}

func (a *Editor) Insert(ty types.Type, args any) (types.Object, error) {
	obj, err := a.inner.Insert(ty, args)
	if err != nil {
		a.log.Warn("insert failed", zap.String("type", string(ty)), zap.Error(err))
		return obj, err
	}
	a.log.Info("insert", zap.String("type", string(ty)), zap.Int("object", int(obj)))
	return obj, nil
}

func (a *Editor) Update(ty types.Type, obj types.Object, args any) error {
	if err := a.inner.Update(ty, obj, args); err != nil {
		a.log.Warn("update failed",
			zap.String("type", string(ty)), zap.Int("object", int(obj)), zap.Error(err))
		return err
	}
	a.log.Info("update", zap.String("type", string(ty)), zap.Int("object", int(obj)))
	return nil
}

func (a *Editor) UpdateField(ty types.Type, obj types.Object, field types.Field, val any) error {
	if err := a.inner.UpdateField(ty, obj, field, val); err != nil {
		a.log.Warn("update field failed",
			zap.String("type", string(ty)), zap.Int("object", int(obj)),
			zap.String("field", field.String()), zap.Error(err))
		return err
	}
	a.log.Info("update field",
		zap.String("type", string(ty)), zap.Int("object", int(obj)),
		zap.String("field", field.String()))
	return nil
}

func (a *Editor) FieldsOf(ty types.Type, obj types.Object) ([]types.Field, error) {
	return a.inner.FieldsOf(ty, obj)
}

func (a *Editor) FieldValue(ty types.Type, obj types.Object, field types.Field) (any, error) {
	return a.inner.FieldValue(ty, obj, field)
}

func (a *Editor) ReferencesTo(ty types.Type, obj types.Object) ([]types.Reference, error) {
	return a.inner.ReferencesTo(ty, obj)
}

func (a *Editor) ReferencesFrom(ty types.Type, obj types.Object) ([]types.Reference, error) {
	return a.inner.ReferencesFrom(ty, obj)
}

func (a *Editor) Delete(ty types.Type, obj types.Object) (*types.Object, error) {
	moved, err := a.inner.Delete(ty, obj)
	if err != nil {
		a.log.Warn("delete failed",
			zap.String("type", string(ty)), zap.Int("object", int(obj)), zap.Error(err))
		return nil, err
	}
	fields := []zap.Field{zap.String("type", string(ty)), zap.Int("object", int(obj))}
	if moved != nil {
		fields = append(fields, zap.Int("moved", int(*moved)))
	}
	a.log.Info("delete", fields...)
	return moved, nil
}

func (a *Editor) Replace(ty types.Type, from, to types.Object) (*types.Object, error) {
	moved, err := a.inner.Replace(ty, from, to)
	if err != nil {
		a.log.Warn("replace failed",
			zap.String("type", string(ty)),
			zap.Int("from", int(from)), zap.Int("to", int(to)), zap.Error(err))
		return nil, err
	}
	fields := []zap.Field{
		zap.String("type", string(ty)),
		zap.Int("from", int(from)), zap.Int("to", int(to)),
	}
	if moved != nil {
		fields = append(fields, zap.Int("moved", int(*moved)))
	}
	a.log.Info("replace", fields...)
	return moved, nil
}

func (a *Editor) DeleteReference(ref types.Reference) error {
	if err := a.inner.DeleteReference(ref); err != nil {
		a.log.Warn("delete reference failed",
			zap.String("from", string(ref.From)), zap.Int("object", int(ref.FromObject)),
			zap.String("field", ref.Field.String()), zap.Error(err))
		return err
	}
	a.log.Info("delete reference",
		zap.String("from", string(ref.From)), zap.Int("object", int(ref.FromObject)),
		zap.String("field", ref.Field.String()))
	return nil
}

func (a *Editor) Select(ty types.Type, obj types.Object) error {
	err := a.inner.Select(ty, obj)
	if err == nil {
		a.log.Debug("select", zap.String("type", string(ty)), zap.Int("object", int(obj)))
	}
	return err
}

func (a *Editor) SelectMultiple(ty types.Type, objs []types.Object) error {
	err := a.inner.SelectMultiple(ty, objs)
	if err == nil {
		a.log.Debug("select multiple",
			zap.String("type", string(ty)), zap.Int("count", len(objs)))
	}
	return err
}

func (a *Editor) DeselectMultiple(ty types.Type, objs []types.Object) error {
	err := a.inner.DeselectMultiple(ty, objs)
	if err == nil {
		a.log.Debug("deselect multiple",
			zap.String("type", string(ty)), zap.Int("count", len(objs)))
	}
	return err
}

func (a *Editor) SelectNone(ty types.Type) error {
	err := a.inner.SelectNone(ty)
	if err == nil {
		a.log.Debug("select none", zap.String("type", string(ty)))
	}
	return err
}

func (a *Editor) Selected(ty types.Type) (types.Object, bool) {
	return a.inner.Selected(ty)
}

func (a *Editor) MultipleSelected(ty types.Type) []types.Object {
	return a.inner.MultipleSelected(ty)
}

func (a *Editor) Visible(ty types.Type) []types.Object { return a.inner.Visible(ty) }

func (a *Editor) NavigateTo(ty types.Type, obj types.Object) error {
	return a.inner.NavigateTo(ty, obj)
}

func (a *Editor) Cursor2D() ([2]float64, bool) { return a.inner.Cursor2D() }

func (a *Editor) Cursor3D() ([3]float64, bool) { return a.inner.Cursor3D() }

func (a *Editor) Hit2D(pos [2]float64) []types.Hit { return a.inner.Hit2D(pos) }

func (a *Editor) Hit3D(pos [3]float64) []types.Hit { return a.inner.Hit3D(pos) }

func (a *Editor) RefreshViews() { a.inner.RefreshViews() }
