package config

import (
	"fmt"
	"os"

	"loan_portal/internal/model"

	"gopkg.in/yaml.v3"
)

// Setting keys with built-in fallbacks.
const (
	SettingCustomerServiceURL = "customer_service_url"
	SettingWelcomeText        = "welcome_text"
	SettingCycleText          = "cycle_text"
	SettingPaymentMethods     = "payment_methods"
	SettingSiteName           = "site_name"
)

// Defaults are the values served when a setting row or contract field has
// never been written.
type Defaults struct {
	Settings map[string]interface{} `yaml:"settings"`
	Contract model.Lender           `yaml:"contract"`
}

// BuiltinDefaults returns the defaults compiled into the binary.
func BuiltinDefaults() *Defaults {
	return &Defaults{
		Settings: map[string]interface{}{
			SettingCustomerServiceURL: "https://kefu-seven.vercel.app/",
			SettingWelcomeText:        "分期付 欢迎您",
			SettingCycleText:          "随借随还",
			SettingPaymentMethods:     []interface{}{},
			SettingSiteName:           "好享贷",
		},
		Contract: model.Lender{
			Name:           "分期付企业管理有限公司云南分公司",
			CompanyLicense: "530100500447129",
			CompanyAddress: "云南省昆明市",
			LegalRep:       "李君龙",
			EstablishDate:  "2020-01-01",
		},
	}
}

// LoadDefaults returns the built-in defaults overlaid with the YAML file at
// path. An empty path returns the built-in defaults unchanged.
func LoadDefaults(path string) (*Defaults, error) {
	d := BuiltinDefaults()
	if path == "" {
		return d, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults file: %w", err)
	}

	var file Defaults
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("failed to parse defaults file: %w", err)
	}

	for k, v := range file.Settings {
		d.Settings[k] = v
	}
	mergeLender(&d.Contract, file.Contract)
	return d, nil
}

func mergeLender(dst *model.Lender, src model.Lender) {
	if src.Name != "" {
		dst.Name = src.Name
	}
	if src.CompanyLicense != "" {
		dst.CompanyLicense = src.CompanyLicense
	}
	if src.CompanyAddress != "" {
		dst.CompanyAddress = src.CompanyAddress
	}
	if src.LegalRep != "" {
		dst.LegalRep = src.LegalRep
	}
	if src.EstablishDate != "" {
		dst.EstablishDate = src.EstablishDate
	}
}
