package fileproc

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"
	"testing"
)

func TestForEachFile(t *testing.T) {
	files := []string{"a.cs", "b.cs", "c.cs"}

	results := ForEachFile(files, func(path string) (string, error) {
		return strings.ToUpper(path), nil
	})

	if len(results) != len(files) {
		t.Fatalf("Expected %d results, got %d", len(files), len(results))
	}

	sort.Strings(results)
	expected := []string{"A.CS", "B.CS", "C.CS"}
	for i, want := range expected {
		if results[i] != want {
			t.Errorf("Result %d: expected %s, got %s", i, want, results[i])
		}
	}
}

func TestForEachFile_Empty(t *testing.T) {
	results := ForEachFile(nil, func(path string) (int, error) {
		return 1, nil
	})
	if results != nil {
		t.Errorf("Expected nil for empty file list, got %v", results)
	}
}

func TestForEachFileN_Errors(t *testing.T) {
	files := []string{"good1.cs", "bad.cs", "good2.cs"}

	var processed atomic.Int32
	var errCount atomic.Int32
	results := ForEachFileN(files, 2, func(path string) (string, error) {
		processed.Add(1)
		if path == "bad.cs" {
			return "", fmt.Errorf("simulated error")
		}
		return path, nil
	}, nil, func(path string, err error) {
		errCount.Add(1)
	})

	if processed.Load() != 3 {
		t.Errorf("Expected all 3 files processed, got %d", processed.Load())
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 successful results, got %d", len(results))
	}
	if errCount.Load() != 1 {
		t.Errorf("Expected 1 error callback, got %d", errCount.Load())
	}
}

func TestForEachFileWithProgress(t *testing.T) {
	files := []string{"a.cs", "b.cs", "c.cs", "d.cs"}

	var ticks atomic.Int32
	results := ForEachFileWithProgress(files, func(path string) (string, error) {
		return path, nil
	}, func() {
		ticks.Add(1)
	})

	if len(results) != 4 {
		t.Errorf("Expected 4 results, got %d", len(results))
	}
	if ticks.Load() != 4 {
		t.Errorf("Expected 4 progress ticks, got %d", ticks.Load())
	}
}

func TestForEachFileWithContext(t *testing.T) {
	files := []string{"a.cs", "b.cs"}

	results, errs := ForEachFileWithContext(context.Background(), files, func(path string) (int, error) {
		return len(path), nil
	})

	if errs.HasErrors() {
		t.Errorf("Unexpected errors: %v", errs)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(results))
	}
}

func TestForEachFileWithContext_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	files := []string{"a.cs", "b.cs", "c.cs"}
	_, errs := ForEachFileWithContext(ctx, files, func(path string) (string, error) {
		return path, nil
	})

	if !errs.HasErrors() {
		t.Fatal("Expected cancellation errors")
	}
	for _, pe := range errs.Errors {
		if pe.Err != context.Canceled {
			t.Errorf("Expected context.Canceled, got %v", pe.Err)
		}
	}
}

func TestForEachFileWithContext_Empty(t *testing.T) {
	results, errs := ForEachFileWithContext(context.Background(), nil, func(path string) (int, error) {
		return 0, nil
	})
	if results != nil {
		t.Errorf("Expected nil results, got %v", results)
	}
	if errs.HasErrors() {
		t.Errorf("Expected no errors, got %v", errs)
	}
}

func TestProcessingErrors_NilSafe(t *testing.T) {
	var errs *ProcessingErrors
	if errs.HasErrors() {
		t.Error("Nil ProcessingErrors should report no errors")
	}
}

func TestProcessingErrors_Error(t *testing.T) {
	errs := &ProcessingErrors{}
	errs.Add("a.cs", fmt.Errorf("boom"))
	if got := errs.Error(); got != "a.cs: boom" {
		t.Errorf("Unexpected error string: %s", got)
	}

	errs.Add("b.cs", fmt.Errorf("bang"))
	if got := errs.Error(); !strings.Contains(got, "2 files failed") {
		t.Errorf("Expected aggregate message, got %s", got)
	}
}
