package cli

import "testing"

func TestReporter(t *testing.T) {
	t.Run("NewReporter", func(t *testing.T) {
		r := NewReporter(false)
		if r == nil {
			t.Fatal("NewReporter returned nil")
		}
		if r.quiet {
			t.Error("quiet should be false")
		}

		r = NewReporter(true)
		if !r.quiet {
			t.Error("quiet should be true")
		}
	})

	t.Run("SetStatus", func(t *testing.T) {
		r := NewReporter(true)
		r.SetStatus("test status")
		if r.status != "test status" {
			t.Errorf("status = %q; want %q", r.status, "test status")
		}
	})

	t.Run("SetProgress", func(t *testing.T) {
		r := NewReporter(true)
		r.SetProgress(5, 10)
		if r.done != 5 || r.total != 10 {
			t.Errorf("done/total = %d/%d; want 5/10", r.done, r.total)
		}
	})

	t.Run("Cancel", func(t *testing.T) {
		r := NewReporter(true)
		if r.IsCancelled() {
			t.Error("should not be cancelled initially")
		}
		r.Cancel()
		if !r.IsCancelled() {
			t.Error("should be cancelled after Cancel()")
		}
	})
}

func TestResolveKDFs(t *testing.T) {
	got, err := resolveKDFs([]string{"sha-512"})
	if err != nil {
		t.Fatalf("resolveKDFs: %v", err)
	}
	if len(got) != 1 || got[0].Name() != "SHA-512" {
		t.Fatalf("resolveKDFs = %v; want [SHA-512]", got)
	}

	if _, err := resolveKDFs([]string{"not-a-kdf"}); err == nil {
		t.Fatal("resolveKDFs: want error for unknown KDF")
	}

	if got, err := resolveKDFs(nil); err != nil || got != nil {
		t.Fatalf("resolveKDFs(nil) = %v, %v; want nil, nil", got, err)
	}
}

func TestResolveModes(t *testing.T) {
	got, err := resolveModes([]string{"xts"})
	if err != nil {
		t.Fatalf("resolveModes: %v", err)
	}
	if len(got) != 1 || !got[0].Kind().IsXTS() {
		t.Fatalf("resolveModes = %v; want [XTS]", got)
	}

	if _, err := resolveModes([]string{"not-a-mode"}); err == nil {
		t.Fatal("resolveModes: want error for unknown mode")
	}
}

func TestResolveAlgorithms(t *testing.T) {
	got, err := resolveAlgorithms([]string{"aes"})
	if err != nil {
		t.Fatalf("resolveAlgorithms: %v", err)
	}
	if len(got) != 1 || got[0].Name() != "AES" {
		t.Fatalf("resolveAlgorithms = %v; want [AES]", got)
	}

	if _, err := resolveAlgorithms([]string{"not-an-algorithm"}); err == nil {
		t.Fatal("resolveAlgorithms: want error for unknown algorithm")
	}
}

func TestResolveSingleKDF(t *testing.T) {
	if _, err := resolveSingleKDF("Whirlpool"); err != nil {
		t.Fatalf("resolveSingleKDF: %v", err)
	}
	if _, err := resolveSingleKDF("bogus"); err == nil {
		t.Fatal("resolveSingleKDF: want error for unknown KDF")
	}
}
