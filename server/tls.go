// server/tls.go
package server

import (
	"context"
	"crypto/tls"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/crypto/acme/autocert"
)

// permissionError reports a key file readable by group or others. It is
// fatal in prod and a warning elsewhere.
type permissionError struct {
	path string
	mode os.FileMode
}

func (e *permissionError) Error() string {
	return fmt.Sprintf("TLS key file %s has permissions %o (want 0600)", e.path, e.mode)
}

// checkTLSFiles verifies both files exist and are regular files, and that
// the key is private to its owner on Unix.
func checkTLSFiles(certFile, keyFile string) error {
	if certFile == "" || keyFile == "" {
		return fmt.Errorf("manual TLS needs both cert_file and key_file")
	}
	if _, err := statFile("certificate", certFile); err != nil {
		return err
	}
	info, err := statFile("key", keyFile)
	if err != nil {
		return err
	}
	if runtime.GOOS != "windows" && info.Mode().Perm()&0o077 != 0 {
		return &permissionError{path: keyFile, mode: info.Mode().Perm()}
	}
	return nil
}

func statFile(kind, path string) (os.FileInfo, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("TLS %s file: %w", kind, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("TLS %s path %s is a directory", kind, path)
	}
	return info, nil
}

// waitForCert polls autocert until it holds a certificate for host, the
// timeout passes, or ctx ends.
func waitForCert(ctx context.Context, m *autocert.Manager, host string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tick := time.NewTicker(time.Second)
	defer tick.Stop()
	for {
		_, err := m.GetCertificate(&tls.ClientHelloInfo{ServerName: host})
		if err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for certificate for %q: %w (last error: %v)", host, ctx.Err(), err)
		case <-tick.C:
		}
	}
}
