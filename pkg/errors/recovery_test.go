package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestRecover_WithPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "SVC.Fit")
		panic("mat: dimension mismatch")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error from recovered panic, got nil")
	}

	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.Operation != "SVC.Fit" {
		t.Errorf("Expected operation 'SVC.Fit', got '%s'", panicErr.Operation)
	}
	if panicErr.StackTrace == "" {
		t.Error("Expected non-empty stack trace")
	}

	expectedMsg := "panic in SVC.Fit: mat: dimension mismatch"
	if panicErr.Error() != expectedMsg {
		t.Errorf("Expected error message '%s', got '%s'", expectedMsg, panicErr.Error())
	}
}

func TestRecover_WithoutPanic(t *testing.T) {
	testFunc := func() (err error) {
		defer Recover(&err, "SVC.Fit")
		return nil
	}

	if err := testFunc(); err != nil {
		t.Fatalf("Expected no error when no panic occurs, got: %v", err)
	}
}

func TestRecover_WithExistingError(t *testing.T) {
	originalErr := fmt.Errorf("original error")

	testFunc := func() (err error) {
		defer Recover(&err, "SVC.Predict")
		err = originalErr
		panic("panic after error")
	}

	err := testFunc()
	if err == nil {
		t.Fatal("Expected error, got nil")
	}
	if !strings.Contains(err.Error(), "panic in SVC.Predict") {
		t.Errorf("Error message should contain panic info: %s", err)
	}
	if !errors.Is(err, originalErr) {
		t.Error("Should be able to identify original error with errors.Is")
	}
}

func TestPanicError_UnwrapsErrorValue(t *testing.T) {
	cause := fmt.Errorf("index out of range")
	panicErr := NewPanicError("kernel.Matrix", cause)
	if !errors.Is(panicErr, cause) {
		t.Error("PanicError should unwrap to an error panic value")
	}

	plain := NewPanicError("kernel.Matrix", "text")
	if plain.Unwrap() != nil {
		t.Error("PanicError.Unwrap() should return nil for non-error values")
	}
	if !strings.Contains(plain.String(), "Stack trace:") {
		t.Error("String() should include stack trace information")
	}
}

func TestSafeExecute(t *testing.T) {
	if err := SafeExecute("ok", func() error { return nil }); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	originalErr := fmt.Errorf("function error")
	if err := SafeExecute("fails", func() error { return originalErr }); err != originalErr {
		t.Fatalf("Expected original error, got: %v", err)
	}

	err := SafeExecute("panics", func() error { panic(42) })
	var panicErr *PanicError
	if !errors.As(err, &panicErr) {
		t.Fatalf("Expected PanicError, got %T", err)
	}
	if panicErr.PanicValue != 42 {
		t.Errorf("Expected panic value 42, got %v", panicErr.PanicValue)
	}
}

func BenchmarkRecover_NoPanic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		func() (err error) {
			defer Recover(&err, "BenchmarkOp")
			return nil
		}()
	}
}
