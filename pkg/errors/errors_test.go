package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/envsync/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{
			Resource: "template",
			Path:     ".env.template",
		}
		assert.Equal(t, "template file .env.template not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewNotFoundError("local", ".env")
		assert.Equal(t, "local file .env not found", err.Error())
		assert.True(t, pkgerrors.IsNotFound(err))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("template", "x.template")
		wrapped := errors.Join(errors.New("failed"), base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "template",
			Message: "cannot be empty",
		}
		assert.Equal(t, "validation failed for field template: cannot be empty", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Message: "template and local are the same file",
		}
		assert.Equal(t, "validation failed: template and local are the same file", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})

	t.Run("constructor", func(t *testing.T) {
		err := pkgerrors.NewValidationError("comments", "mixed", "unknown comment policy")
		assert.Contains(t, err.Error(), "comments")
		assert.Contains(t, err.Error(), "unknown comment policy")
		assert.Equal(t, "mixed", err.Value)
	})
}

func TestConfigError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ConfigError{
			Component: "viper",
			Message:   "format: invalid value",
		}
		assert.Contains(t, err.Error(), "viper")
		assert.Contains(t, err.Error(), "invalid value")
	})

	t.Run("constructor", func(t *testing.T) {
		base := errors.New("yaml: line 3")
		err := pkgerrors.NewConfigError("config", "failed to read .envsync.yaml", base)
		assert.Contains(t, err.Error(), "failed to read .envsync.yaml")
		assert.Equal(t, base, err.Unwrap())
	})
}

func TestIOError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.IOError{
			Operation: "read",
			Path:      "/tmp/.env",
			Message:   "permission denied",
			Err:       errors.New("permission denied"),
		}
		assert.Equal(t, "IO error during read of /tmp/.env: permission denied", err.Error())
	})

	t.Run("without path", func(t *testing.T) {
		err := pkgerrors.NewIOError("sync", "", errors.New("boom"))
		assert.Equal(t, "IO error during sync: boom", err.Error())
	})

	t.Run("unwrap", func(t *testing.T) {
		baseErr := errors.New("disk full")
		err := pkgerrors.NewIOError("write", "/data/.env", baseErr)
		assert.Equal(t, baseErr, err.Unwrap())
	})

	t.Run("wrap helper", func(t *testing.T) {
		baseErr := errors.New("read-only file system")
		err := pkgerrors.WrapIO("rename", "/etc/.env", baseErr)
		ioErr, ok := err.(*pkgerrors.IOError)
		require.True(t, ok)
		assert.Equal(t, "rename", ioErr.Operation)
		assert.Equal(t, "/etc/.env", ioErr.Path)
	})
}

func TestResourceError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.ResourceError{
			Operation: "watch",
			Resource:  "directory",
			ID:        "config",
			Message:   "too many open files",
			Err:       errors.New("too many open files"),
		}
		assert.Equal(t, "failed to watch directory config: too many open files", err.Error())
	})

	t.Run("without id", func(t *testing.T) {
		err := pkgerrors.NewResourceError("format", "report", "", errors.New("unsupported"))
		assert.Equal(t, "failed to format report: unsupported", err.Error())
	})

	t.Run("wrap helper", func(t *testing.T) {
		err := pkgerrors.WrapResource("discover", "directory", "./services", errors.New("bad pattern"))
		resErr, ok := err.(*pkgerrors.ResourceError)
		require.True(t, ok)
		assert.Equal(t, "discover", resErr.Operation)
		assert.Equal(t, "directory", resErr.Resource)
	})
}

func TestSyncError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := pkgerrors.NewSyncError(".env.template", ".env", pkgerrors.ErrOutOfSync)
		assert.Equal(t, "sync .env.template -> .env: out of sync", err.Error())
	})

	t.Run("unwraps to sentinel", func(t *testing.T) {
		err := pkgerrors.WrapSync("a.template", "a", pkgerrors.ErrOutOfSync)
		assert.True(t, pkgerrors.IsOutOfSync(err))
		assert.False(t, pkgerrors.IsNotFound(err))
	})

	t.Run("unwraps to typed error", func(t *testing.T) {
		notFound := pkgerrors.NewNotFoundError("template", "a.template")
		err := &pkgerrors.SyncError{Template: "a.template", Local: "a", Err: notFound}

		var target *pkgerrors.NotFoundError
		require.True(t, errors.As(err, &target))
		assert.Equal(t, "a.template", target.Path)
		assert.True(t, pkgerrors.IsNotFound(err))
	})
}

func TestHelperFunctions(t *testing.T) {
	t.Run("IsNotFound", func(t *testing.T) {
		assert.True(t, pkgerrors.IsNotFound(pkgerrors.NewNotFoundError("template", "x")))
		assert.False(t, pkgerrors.IsNotFound(errors.New("not found")))
		assert.True(t, pkgerrors.IsNotFound(pkgerrors.ErrNotFound))
	})

	t.Run("IsCanceled", func(t *testing.T) {
		assert.True(t, pkgerrors.IsCanceled(pkgerrors.ErrCanceled))
		assert.True(t, pkgerrors.IsCanceled(pkgerrors.WrapSync("t", "l", pkgerrors.ErrCanceled)))
	})

	t.Run("IsOutOfSync", func(t *testing.T) {
		joined := pkgerrors.Join(
			pkgerrors.WrapSync("a.template", "a", pkgerrors.ErrOutOfSync),
			pkgerrors.WrapSync("b.template", "b", pkgerrors.NewNotFoundError("template", "b.template")),
		)
		assert.True(t, pkgerrors.IsOutOfSync(joined))
		assert.True(t, pkgerrors.IsNotFound(joined))
	})
}

func TestWrapHelpers(t *testing.T) {
	t.Run("IsValidationError", func(t *testing.T) {
		err := pkgerrors.NewValidationError("LocalPath", ".env", "must differ from the template")
		assert.True(t, pkgerrors.IsValidationError(pkgerrors.WrapSync("t", "l", err)))
		assert.False(t, pkgerrors.IsValidationError(pkgerrors.ErrOutOfSync))
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapIO("read", "file", nil))
		assert.Nil(t, pkgerrors.WrapResource("watch", "directory", "x", nil))
		assert.Nil(t, pkgerrors.WrapSync("t", "l", nil))
	})
}

func TestErrorChaining(t *testing.T) {
	baseErr := errors.New("permission denied")
	ioErr := pkgerrors.WrapIO("write", ".env", baseErr)
	syncErr := pkgerrors.WrapSync(".env.template", ".env", ioErr)

	var targetIOErr *pkgerrors.IOError
	require.True(t, errors.As(syncErr, &targetIOErr))
	assert.Equal(t, "write", targetIOErr.Operation)
	assert.True(t, errors.Is(syncErr, baseErr))
}

func TestSentinelErrors(t *testing.T) {
	sentinels := []struct {
		name string
		err  error
	}{
		{"ErrNotFound", pkgerrors.ErrNotFound},
		{"ErrInvalidInput", pkgerrors.ErrInvalidInput},
		{"ErrCanceled", pkgerrors.ErrCanceled},
		{"ErrOutOfSync", pkgerrors.ErrOutOfSync},
		{"ErrUnsetVariables", pkgerrors.ErrUnsetVariables},
	}

	for _, tc := range sentinels {
		t.Run(tc.name, func(t *testing.T) {
			assert.NotNil(t, tc.err)
			assert.NotEmpty(t, tc.err.Error())
		})
	}
}
