package surface

import (
	"encoding/json"
	"os"

	"apidiff/internal/apierrors"
	"apidiff/internal/logging"
)

// LoaderSchemaVersion is the supported surface descriptor schema version
const LoaderSchemaVersion = 1

// Loader resolves a reference to a loaded API surface
type Loader interface {
	Load(ref string) (*Assembly, error)
}

// FileLoader loads API surfaces from JSON descriptor files
type FileLoader struct {
	logger *logging.Logger
}

// NewFileLoader creates a descriptor file loader
func NewFileLoader(logger *logging.Logger) *FileLoader {
	return &FileLoader{logger: logger.Named("loader")}
}

// Load reads and validates one surface descriptor file. A load failure
// here is catastrophic for the comparison and is returned to the caller.
func (l *FileLoader) Load(path string) (*Assembly, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, apierrors.New(apierrors.AssemblyLoadFailed, "failed to read surface descriptor "+path, err)
	}

	var asm Assembly
	if err := json.Unmarshal(data, &asm); err != nil {
		return nil, apierrors.New(apierrors.AssemblyLoadFailed, "failed to parse surface descriptor "+path, err)
	}

	if asm.SchemaVersion != LoaderSchemaVersion {
		return nil, apierrors.Errorf(apierrors.AssemblyLoadFailed,
			"unsupported descriptor schema version %d in %s", asm.SchemaVersion, path)
	}
	if asm.Name == "" {
		return nil, apierrors.Errorf(apierrors.AssemblyLoadFailed, "surface descriptor %s has no assembly name", path)
	}

	l.logger.Debug("Loaded surface descriptor", map[string]interface{}{
		"path":  path,
		"name":  asm.Name,
		"types": len(asm.Types),
	})

	return &asm, nil
}
