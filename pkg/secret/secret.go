// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

// Package secret resolves secret references such as the VM admin password.
//
// Supported references:
//
//	env:NAME                           environment variable
//	file:PATH                          file contents, trailing newline trimmed
//	keyvault://VAULT/SECRET[/VERSION]  Azure Key Vault secret
package secret

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"github.com/platform-engineering-labs/azvm/pkg/logging"
)

// ErrEmpty is returned when a reference resolves to an empty value.
var ErrEmpty = errors.New("secret value is empty")

const (
	SchemeEnv      = "env"
	SchemeFile     = "file"
	SchemeKeyVault = "keyvault"
)

// Ref is a parsed secret reference.
type Ref struct {
	Scheme string
	// Name is the variable name, file path or Key Vault secret name.
	Name    string
	Vault   string
	Version string
}

func (r Ref) String() string {
	switch r.Scheme {
	case SchemeKeyVault:
		s := "keyvault://" + r.Vault + "/" + r.Name
		if r.Version != "" {
			s += "/" + r.Version
		}
		return s
	default:
		return r.Scheme + ":" + r.Name
	}
}

// ParseRef parses a secret reference.
func ParseRef(ref string) (Ref, error) {
	scheme, rest, ok := strings.Cut(ref, ":")
	if !ok || rest == "" {
		return Ref{}, fmt.Errorf("invalid secret reference %q: want env:NAME, file:PATH or keyvault://VAULT/SECRET", ref)
	}

	switch scheme {
	case SchemeEnv, SchemeFile:
		return Ref{Scheme: scheme, Name: rest}, nil
	case SchemeKeyVault:
		u, err := url.Parse(ref)
		if err != nil {
			return Ref{}, fmt.Errorf("invalid secret reference %q: %w", ref, err)
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if u.Host == "" || parts[0] == "" || len(parts) > 2 {
			return Ref{}, fmt.Errorf("invalid secret reference %q: want keyvault://VAULT/SECRET[/VERSION]", ref)
		}
		r := Ref{Scheme: SchemeKeyVault, Vault: u.Host, Name: parts[0]}
		if len(parts) == 2 {
			r.Version = parts[1]
		}
		return r, nil
	default:
		return Ref{}, fmt.Errorf("unsupported secret scheme %q in %q", scheme, ref)
	}
}

// VaultLocator returns the data-plane URI of a Key Vault.
type VaultLocator interface {
	VaultURI(ctx context.Context, resourceGroup, vaultName string) (string, error)
}

// Getter reads a secret value from one vault. *azsecrets.Client satisfies it.
type Getter interface {
	GetSecret(ctx context.Context, name, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// GetterFactory builds a Getter for a vault URI.
type GetterFactory func(vaultURI string) (Getter, error)

// Resolver resolves secret references.
type Resolver struct {
	// Locator looks up vault URIs when VaultResourceGroup is set.
	Locator            VaultLocator
	VaultResourceGroup string
	NewGetter          GetterFactory

	// LookupEnv and ReadFile default to os.LookupEnv and os.ReadFile.
	LookupEnv func(string) (string, bool)
	ReadFile  func(string) ([]byte, error)
}

// Resolve returns the value ref points at. Empty values are rejected.
func (r *Resolver) Resolve(ctx context.Context, ref string) (string, error) {
	parsed, err := ParseRef(ref)
	if err != nil {
		return "", err
	}

	var value string
	switch parsed.Scheme {
	case SchemeEnv:
		value, err = r.fromEnv(parsed.Name)
	case SchemeFile:
		value, err = r.fromFile(parsed.Name)
	case SchemeKeyVault:
		value, err = r.fromKeyVault(ctx, parsed)
	}
	if err != nil {
		return "", err
	}
	if value == "" {
		return "", fmt.Errorf("%s: %w", parsed, ErrEmpty)
	}

	logging.FromContext(ctx).Debugw("Resolved secret", "ref", parsed.String())
	return value, nil
}

func (r *Resolver) fromEnv(name string) (string, error) {
	lookup := r.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	value, ok := lookup(name)
	if !ok {
		return "", fmt.Errorf("environment variable %s is not set", name)
	}
	return value, nil
}

func (r *Resolver) fromFile(path string) (string, error) {
	read := r.ReadFile
	if read == nil {
		read = os.ReadFile
	}
	data, err := read(path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret file: %w", err)
	}
	return strings.TrimRight(string(data), "\r\n"), nil
}

func (r *Resolver) fromKeyVault(ctx context.Context, ref Ref) (string, error) {
	if r.NewGetter == nil {
		return "", fmt.Errorf("%s: key vault access is not configured", ref)
	}

	vaultURI, err := r.vaultURI(ctx, ref.Vault)
	if err != nil {
		return "", err
	}

	getter, err := r.NewGetter(vaultURI)
	if err != nil {
		return "", fmt.Errorf("failed to create secrets client for %s: %w", vaultURI, err)
	}

	resp, err := getter.GetSecret(ctx, ref.Name, ref.Version, nil)
	if err != nil {
		return "", fmt.Errorf("failed to get secret %s: %w", ref, err)
	}
	if resp.Value == nil {
		return "", nil
	}
	return *resp.Value, nil
}

func (r *Resolver) vaultURI(ctx context.Context, vault string) (string, error) {
	if r.VaultResourceGroup == "" || r.Locator == nil {
		return DefaultVaultURI(vault), nil
	}
	return r.Locator.VaultURI(ctx, r.VaultResourceGroup, vault)
}

// DefaultVaultURI returns the public-cloud URI of a vault.
func DefaultVaultURI(vault string) string {
	return "https://" + vault + ".vault.azure.net/"
}
