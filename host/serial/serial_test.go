package serial

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyUSB0")
	if cfg.Device != "/dev/ttyUSB0" || cfg.Baud != 115200 || cfg.ReadTimeout != 100 {
		t.Errorf("Unexpected default config %+v", cfg)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Error("Expected an error for a nil config")
	}
	if _, err := Open(DefaultConfig("")); err == nil {
		t.Error("Expected an error without a device")
	}

	missing := filepath.Join(t.TempDir(), "ttyNONE")
	_, err := Open(DefaultConfig(missing))
	if err == nil || !strings.Contains(err.Error(), missing) {
		t.Errorf("Expected an error naming %s, got %v", missing, err)
	}
}
