package security

import (
	"errors"
	"testing"
)

func lightArgon2(t *testing.T) {
	t.Helper()
	err := ConfigureArgon2(Argon2Config{
		Memory:      8 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
	if err != nil {
		t.Fatalf("configure argon2: %v", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	lightArgon2(t)

	hash, err := HashPassword("correct horse battery")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	ok, err := VerifyPassword("correct horse battery", hash)
	if err != nil || !ok {
		t.Fatalf("verify: ok=%v err=%v", ok, err)
	}

	ok, err = VerifyPassword("wrong password", hash)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password must not verify")
	}
}

func TestHashesAreSalted(t *testing.T) {
	lightArgon2(t)

	first, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	second, err := HashPassword("same password")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if first == second {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestVerifyPasswordEmptyInputs(t *testing.T) {
	ok, err := VerifyPassword("", "whatever")
	if err != nil || ok {
		t.Fatalf("empty password: ok=%v err=%v", ok, err)
	}
	ok, err = VerifyPassword("password", "")
	if err != nil || ok {
		t.Fatalf("empty hash: ok=%v err=%v", ok, err)
	}
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	if _, err := VerifyPassword("password", "no-separator"); err == nil {
		t.Fatal("expected an error for a malformed hash")
	}
	if _, err := VerifyPassword("password", "!!!:###"); err == nil {
		t.Fatal("expected an error for undecodable parts")
	}
}

func TestConfigureArgon2Validation(t *testing.T) {
	valid := Argon2Config{Memory: 8 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32}

	cases := map[string]func(c Argon2Config) Argon2Config{
		"low memory":      func(c Argon2Config) Argon2Config { c.Memory = 4096; return c },
		"zero iterations": func(c Argon2Config) Argon2Config { c.Iterations = 0; return c },
		"zero threads":    func(c Argon2Config) Argon2Config { c.Parallelism = 0; return c },
		"short salt":      func(c Argon2Config) Argon2Config { c.SaltLength = 4; return c },
		"short key":       func(c Argon2Config) Argon2Config { c.KeyLength = 8; return c },
	}
	for name, mutate := range cases {
		if err := ConfigureArgon2(mutate(valid)); !errors.Is(err, errInvalidArgon2Config) {
			t.Errorf("%s: expected a configuration error, got %v", name, err)
		}
	}

	if err := ConfigureArgon2(valid); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}
}

func TestPasswordValidator(t *testing.T) {
	v := DefaultPasswordValidator()

	if err := v.Validate("short"); err == nil {
		t.Fatal("expected a length violation")
	}

	var policy *PasswordValidationError
	err := v.Validate("maya@example.com", "maya@example.com", "maya")
	if !errors.As(err, &policy) {
		t.Fatalf("expected a policy error for an identifier password, got %v", err)
	}

	if err := v.Validate("blue kettle morning 7", "maya@example.com", "maya"); err != nil {
		t.Fatalf("strong password rejected: %v", err)
	}
}
