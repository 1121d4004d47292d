package session

import (
	"crypto/rand"
	"fmt"
	"os"
)

const (
	SecretEnvVar  = "JWT_SECRET"
	MinSecretSize = 32
)

type (
	// WeakSecret is returned in production when the signing secret is
	// missing or too short.
	WeakSecret struct {
		EnvVar string
		Size   int
	}
)

func (w WeakSecret) Error() string {
	if w.Size == 0 {
		return fmt.Sprintf("session: environment variable %v must hold the signing secret", w.EnvVar)
	}
	return fmt.Sprintf("session: secret from %v has %v bytes, at least %v are required", w.EnvVar, w.Size, MinSecretSize)
}

// SecretFromEnv reads the signing secret from varname and clears the variable
// so child processes cannot see it.
//
// Outside production a missing secret is replaced by a random one, in which
// case ephemeral is true and tokens do not survive a restart.
func SecretFromEnv(varname string, getfn func(string) string, setfn func(string, string) error, production bool) (secret []byte, ephemeral bool, err error) {
	if getfn == nil {
		getfn = os.Getenv
	}
	if setfn == nil {
		setfn = os.Setenv
	}
	val := getfn(varname)
	setfn(varname, "")
	switch {
	case production && len(val) < MinSecretSize:
		return nil, false, WeakSecret{EnvVar: varname, Size: len(val)}
	case len(val) > 0:
		return []byte(val), false, nil
	}
	secret = make([]byte, MinSecretSize)
	if _, err := rand.Read(secret); err != nil {
		return nil, false, fmt.Errorf("session: unable to generate ephemeral secret, cause %w", err)
	}
	return secret, true, nil
}
