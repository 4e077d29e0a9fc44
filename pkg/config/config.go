// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package config

import (
	"context"
	"errors"
	"fmt"
	"net/netip"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// EnvSubscriptionID is consulted when neither the config file nor a flag sets
// the subscription.
const EnvSubscriptionID = "AZURE_SUBSCRIPTION_ID"

// DefaultAdminPasswordRef points at the environment variable holding the VM
// admin password when the config does not name another source.
const DefaultAdminPasswordRef = "env:AZVM_ADMIN_PASSWORD"

// Config holds everything the provisioning pipeline needs. Zero values are
// filled in by ApplyDefaults.
type Config struct {
	SubscriptionId    string            `yaml:"subscriptionId"`
	ResourceGroupName string            `yaml:"resourceGroupName"`
	Location          string            `yaml:"location"`
	Tags              map[string]string `yaml:"tags,omitempty"`

	Network   NetworkConfig   `yaml:"network"`
	Interface InterfaceConfig `yaml:"interface"`
	Machine   MachineConfig   `yaml:"machine"`
	Identity  IdentityConfig  `yaml:"identity"`
	KeyVault  KeyVaultConfig  `yaml:"keyVault"`

	// PollFrequency is how often long-running operations are polled.
	PollFrequency time.Duration `yaml:"pollFrequency"`
}

type NetworkConfig struct {
	Name         string   `yaml:"name"`
	AddressSpace []string `yaml:"addressSpace"`
	SubnetName   string   `yaml:"subnetName"`
	SubnetPrefix string   `yaml:"subnetPrefix"`
}

type InterfaceConfig struct {
	Name         string `yaml:"name"`
	IPConfigName string `yaml:"ipConfigName"`
}

type MachineConfig struct {
	Name             string         `yaml:"name"`
	ComputerName     string         `yaml:"computerName"`
	Size             string         `yaml:"size"`
	Image            ImageReference `yaml:"image"`
	AdminUsername    string         `yaml:"adminUsername"`
	AdminPasswordRef string         `yaml:"adminPasswordRef"`
	OSDisk           OSDiskConfig   `yaml:"osDisk"`
}

// ImageReference identifies a marketplace image.
type ImageReference struct {
	Publisher string `yaml:"publisher"`
	Offer     string `yaml:"offer"`
	SKU       string `yaml:"sku"`
	Version   string `yaml:"version"`
}

type OSDiskConfig struct {
	StorageAccountType string `yaml:"storageAccountType"`
	Caching            string `yaml:"caching"`
}

// IdentityConfig enables a user-assigned managed identity for the VM when Name
// is set.
type IdentityConfig struct {
	Name string `yaml:"name"`
}

// Enabled reports whether an identity should be provisioned.
func (i IdentityConfig) Enabled() bool {
	return i.Name != ""
}

// KeyVaultConfig tells the secret resolver where to look up vault URIs.
// When ResourceGroup is empty, vault URIs are derived from the vault name.
type KeyVaultConfig struct {
	ResourceGroup string `yaml:"resourceGroup"`
}

// Default returns a Config populated with the stock resource layout.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset field with its default.
func (c *Config) ApplyDefaults() {
	if c.ResourceGroupName == "" {
		c.ResourceGroupName = "myresourcegroup"
	}
	if c.Location == "" {
		c.Location = "eastus"
	}
	if c.Network.Name == "" {
		c.Network.Name = "myvnet"
	}
	if len(c.Network.AddressSpace) == 0 {
		c.Network.AddressSpace = []string{"10.0.0.0/16"}
	}
	if c.Network.SubnetName == "" {
		c.Network.SubnetName = "mysubnet"
	}
	if c.Network.SubnetPrefix == "" {
		c.Network.SubnetPrefix = "10.0.0.0/24"
	}
	if c.Interface.Name == "" {
		c.Interface.Name = "mynic"
	}
	if c.Interface.IPConfigName == "" {
		c.Interface.IPConfigName = "myipconfig"
	}
	if c.Machine.Name == "" {
		c.Machine.Name = "myvm"
	}
	if c.Machine.ComputerName == "" {
		c.Machine.ComputerName = c.Machine.Name
	}
	if c.Machine.Size == "" {
		c.Machine.Size = "Standard_B1ls"
	}
	if c.Machine.Image == (ImageReference{}) {
		c.Machine.Image = ImageReference{
			Publisher: "Canonical",
			Offer:     "UbuntuServer",
			SKU:       "18.04-LTS",
			Version:   "latest",
		}
	}
	if c.Machine.AdminUsername == "" {
		c.Machine.AdminUsername = "azureuser"
	}
	if c.Machine.AdminPasswordRef == "" {
		c.Machine.AdminPasswordRef = DefaultAdminPasswordRef
	}
	if c.Machine.OSDisk.StorageAccountType == "" {
		c.Machine.OSDisk.StorageAccountType = "Standard_LRS"
	}
	if c.Machine.OSDisk.Caching == "" {
		c.Machine.OSDisk.Caching = "ReadWrite"
	}
	if c.PollFrequency == 0 {
		c.PollFrequency = 10 * time.Second
	}
}

// Load reads a YAML config file and applies defaults. An empty path yields the
// defaults alone. The subscription falls back to AZURE_SUBSCRIPTION_ID.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if cfg.SubscriptionId == "" {
		cfg.SubscriptionId = os.Getenv(EnvSubscriptionID)
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var errs []error

	if c.SubscriptionId == "" {
		errs = append(errs, fmt.Errorf("subscriptionId is required (set it in the config, --subscription-id or %s)", EnvSubscriptionID))
	} else if _, err := uuid.Parse(c.SubscriptionId); err != nil {
		errs = append(errs, fmt.Errorf("invalid subscriptionId format: %w", err))
	}

	required := []struct {
		field, value string
	}{
		{"resourceGroupName", c.ResourceGroupName},
		{"location", c.Location},
		{"network.name", c.Network.Name},
		{"network.subnetName", c.Network.SubnetName},
		{"interface.name", c.Interface.Name},
		{"interface.ipConfigName", c.Interface.IPConfigName},
		{"machine.name", c.Machine.Name},
		{"machine.size", c.Machine.Size},
		{"machine.adminUsername", c.Machine.AdminUsername},
		{"machine.adminPasswordRef", c.Machine.AdminPasswordRef},
		{"machine.image.publisher", c.Machine.Image.Publisher},
		{"machine.image.offer", c.Machine.Image.Offer},
		{"machine.image.sku", c.Machine.Image.SKU},
		{"machine.image.version", c.Machine.Image.Version},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.field))
		}
	}

	errs = append(errs, c.validateNetwork()...)

	// The SDK refuses to poll more often than once a second.
	if c.PollFrequency != 0 && c.PollFrequency < time.Second {
		errs = append(errs, fmt.Errorf("pollFrequency must be at least 1s, got %s", c.PollFrequency))
	}

	return errors.Join(errs...)
}

func (c *Config) validateNetwork() []error {
	var errs []error

	if len(c.Network.AddressSpace) == 0 {
		return []error{fmt.Errorf("network.addressSpace requires at least one prefix")}
	}

	spaces := make([]netip.Prefix, 0, len(c.Network.AddressSpace))
	for i, s := range c.Network.AddressSpace {
		p, err := netip.ParsePrefix(s)
		if err != nil {
			errs = append(errs, fmt.Errorf("network.addressSpace[%d]: %w", i, err))
			continue
		}
		spaces = append(spaces, p.Masked())
	}

	subnet, err := netip.ParsePrefix(c.Network.SubnetPrefix)
	if err != nil {
		return append(errs, fmt.Errorf("network.subnetPrefix: %w", err))
	}

	for _, space := range spaces {
		if space.Bits() <= subnet.Bits() && space.Contains(subnet.Addr()) {
			return errs
		}
	}
	if len(spaces) > 0 {
		errs = append(errs, fmt.Errorf("network.subnetPrefix %s is not inside network.addressSpace %v", c.Network.SubnetPrefix, c.Network.AddressSpace))
	}
	return errs
}

// ToAzureCredential creates Azure credentials using the default credential chain.
// This uses DefaultAzureCredential which tries multiple authentication methods:
// - Environment variables (AZURE_CLIENT_ID, AZURE_CLIENT_SECRET, AZURE_TENANT_ID)
// - Managed Identity
// - Azure CLI
// - etc.
func (c *Config) ToAzureCredential(ctx context.Context) (azcore.TokenCredential, error) {
	return azidentity.NewDefaultAzureCredential(nil)
}
