// config_test.go: unit tests for ripplecache configuration
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package ripplecache

import "testing"

func TestConfig_Validate_RejectsInvalidCapacity(t *testing.T) {
	cfg := Config[string, int]{Capacity: 0, Hash: testHashString}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for zero capacity")
	}
	if !IsConstructionError(err) {
		t.Errorf("expected construction error, got %v", err)
	}
	if GetErrorCode(err) != ErrCodeInvalidCapacity {
		t.Errorf("code = %s, want %s", GetErrorCode(err), ErrCodeInvalidCapacity)
	}
}

func TestConfig_Validate_RejectsMissingHash(t *testing.T) {
	cfg := Config[string, int]{Capacity: 10}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for nil Hash")
	}
	if GetErrorCode(err) != ErrCodeMissingHash {
		t.Errorf("code = %s, want %s", GetErrorCode(err), ErrCodeMissingHash)
	}
}

func TestConfig_Validate_RejectsInvalidPolicy(t *testing.T) {
	cfg := Config[string, int]{Capacity: 10, Hash: testHashString, Policy: Policy(99)}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid policy")
	}
	if GetErrorCode(err) != ErrCodeInvalidPolicy {
		t.Errorf("code = %s, want %s", GetErrorCode(err), ErrCodeInvalidPolicy)
	}
}

func TestConfig_Validate_DefaultsConcurrencyLevel(t *testing.T) {
	cfg := Config[string, int]{Capacity: 10, Hash: testHashString}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.ConcurrencyLevel <= 0 {
		t.Errorf("expected a positive default ConcurrencyLevel, got %d", cfg.ConcurrencyLevel)
	}
}

func TestConfig_Validate_PreservesExplicitConcurrencyLevel(t *testing.T) {
	cfg := Config[string, int]{Capacity: 10, Hash: testHashString, ConcurrencyLevel: 3}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.ConcurrencyLevel != 3 {
		t.Errorf("ConcurrencyLevel = %d, want 3", cfg.ConcurrencyLevel)
	}
}

func TestConfig_Validate_DefaultsKeyEqAndValueEq(t *testing.T) {
	cfg := Config[string, int]{Capacity: 10, Hash: testHashString}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.KeyEq == nil {
		t.Fatal("expected KeyEq to be defaulted")
	}
	if !cfg.KeyEq("a", "a") || cfg.KeyEq("a", "b") {
		t.Error("default KeyEq does not behave like ==")
	}
	if cfg.ValueEq == nil {
		t.Fatal("expected ValueEq to be defaulted")
	}
	if !cfg.ValueEq(1, 1) || cfg.ValueEq(1, 2) {
		t.Error("default ValueEq does not behave like reflect.DeepEqual")
	}
}

func TestConfig_Validate_DefaultsCollaborators(t *testing.T) {
	cfg := Config[string, int]{Capacity: 10, Hash: testHashString}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if cfg.Logger == nil {
		t.Error("expected Logger to be defaulted")
	}
	if cfg.TimeProvider == nil {
		t.Error("expected TimeProvider to be defaulted")
	}
	if cfg.MetricsCollector == nil {
		t.Error("expected MetricsCollector to be defaulted")
	}
}

func TestConfig_Validate_AcceptsLFUPolicy(t *testing.T) {
	cfg := Config[string, int]{Capacity: 10, Hash: testHashString, Policy: LFU}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}
