package types

// Config holds backend selection and parameters for attaching a
// storage-backed editor.
type Config struct {
	Backend string `json:"backend" yaml:"backend" mapstructure:"backend"`
	DataDir string `json:"data_dir,omitempty" yaml:"data_dir,omitempty" mapstructure:"data_dir"`
	Sync    string `json:"sync,omitempty" yaml:"sync,omitempty" mapstructure:"sync"`
}

// Supported backend names.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
)

// Sync strategies for storage-backed editors: persist after every
// committed mutation, or once on detach.
const (
	SyncImmediate = "immediate"
	SyncOnClose   = "on_close"
)

// knownBackends lists the backends Validate accepts.
var knownBackends = map[string]bool{
	BackendMemory: true,
	BackendSQLite: true,
}

// knownSyncs lists the sync strategies Validate accepts. Empty means
// SyncImmediate.
var knownSyncs = map[string]bool{
	"":            true,
	SyncImmediate: true,
	SyncOnClose:   true,
}

// Validate checks that the Config is well-formed, returning a sentinel
// error from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	if !knownSyncs[c.Sync] {
		return ErrSyncUnknown
	}
	return nil
}
