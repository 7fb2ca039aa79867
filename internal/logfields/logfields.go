package logfields

import "log/slog"

// Canonical log field name constants to avoid drift across packages.
const (
	KeyStage          = "stage"
	KeyExtensionPoint = "extension_point"
	KeyOwner          = "owner"
	KeyComponent      = "component"
	KeyHandlers       = "handlers"
	KeySections       = "sections"
	KeyChannel        = "channel"
	KeyPlatform       = "platform"
	KeyTaskType       = "task_type"
	KeyBuildID        = "build_id"
	KeyPath           = "path"
	KeyElement        = "element"
	KeyAttribute      = "attribute"
	KeyKey            = "key"
	KeyDurationMS     = "duration_ms"
	KeyExitCode       = "exit_code"
	KeyError          = "error"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func Stage(name string) slog.Attr          { return slog.String(KeyStage, name) }
func ExtensionPoint(name string) slog.Attr { return slog.String(KeyExtensionPoint, name) }
func Owner(name string) slog.Attr          { return slog.String(KeyOwner, name) }
func Component(name string) slog.Attr      { return slog.String(KeyComponent, name) }
func Handlers(n int) slog.Attr             { return slog.Int(KeyHandlers, n) }
func Sections(n int) slog.Attr             { return slog.Int(KeySections, n) }
func Channel(name string) slog.Attr        { return slog.String(KeyChannel, name) }
func Platform(p string) slog.Attr          { return slog.String(KeyPlatform, p) }
func TaskType(t string) slog.Attr          { return slog.String(KeyTaskType, t) }
func BuildID(id string) slog.Attr          { return slog.String(KeyBuildID, id) }
func Path(p string) slog.Attr              { return slog.String(KeyPath, p) }
func Element(name string) slog.Attr        { return slog.String(KeyElement, name) }
func Attribute(name string) slog.Attr      { return slog.String(KeyAttribute, name) }
func Key(k string) slog.Attr               { return slog.String(KeyKey, k) }
func DurationMS(ms float64) slog.Attr      { return slog.Float64(KeyDurationMS, ms) }
func ExitCode(code int) slog.Attr          { return slog.Int(KeyExitCode, code) }
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
