package economy

import (
	"context"
	"math"
	"sort"
	"strconv"
	"strings"

	"emperror.dev/errors"
	"github.com/PancyStudios/CompanionBotGo/pkg/models"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
)

// fractional settings are stored as floats, everything else as whole numbers.
func fractional(key string) bool {
	return strings.Contains(key, "chance") || strings.HasSuffix(key, "_tax") || strings.Contains(key, "percent")
}

// CheckSetting applies the per-key range rules.
func CheckSetting(key string, value float64) error {
	switch {
	case strings.Contains(key, "chance"):
		if value < 0 || value > 1 {
			return &SettingError{Key: key, Reason: "la probabilidad debe estar entre 0 y 1"}
		}
	case strings.Contains(key, "cooldown"):
		if value < 0 {
			return &SettingError{Key: key, Reason: "el cooldown no puede ser negativo"}
		}
	case strings.HasSuffix(key, "_tax"):
		if value < 0 || value > 1 {
			return &SettingError{Key: key, Reason: "el impuesto debe estar entre 0 y 1"}
		}
	case strings.Contains(key, "percent"):
		if value < 0 || value > 1 {
			return &SettingError{Key: key, Reason: "el porcentaje debe estar entre 0 y 1"}
		}
	case strings.Contains(key, "min"), strings.Contains(key, "max"),
		strings.Contains(key, "base"), strings.Contains(key, "bonus"):
		if value < 0 {
			return &SettingError{Key: key, Reason: "el valor no puede ser negativo"}
		}
	}
	if !fractional(key) && value != math.Trunc(value) {
		return &SettingError{Key: key, Reason: "el valor debe ser un número entero"}
	}
	return nil
}

// SettingKeys lists every configurable key in alphabetical order.
func SettingKeys() []string {
	m, _ := settingsMap(models.DefaultEconomySettings())
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func settingsMap(cfg models.EconomySettings) (map[string]interface{}, error) {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return nil, err
	}
	m := make(map[string]interface{})
	return m, json.Unmarshal(raw, &m)
}

// translate turns validator failures into a SettingError naming the json key.
func translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	fe := verrs[0]
	key := jsonKey(fe.StructField())
	switch fe.Tag() {
	case "ltefield":
		return &SettingError{Key: key, Reason: "el mínimo no puede ser mayor que " + jsonKey(fe.Param())}
	case "lte":
		return &SettingError{Key: key, Reason: "el valor debe ser como máximo " + fe.Param()}
	case "gte":
		return &SettingError{Key: key, Reason: "el valor debe ser como mínimo " + fe.Param()}
	}
	return &SettingError{Key: key, Reason: fe.Error()}
}

// jsonKey converts a Go field name (RobFailMin) into its json key (rob_fail_min).
func jsonKey(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Settings returns a copy of the global settings.
func (s *Service) Settings(ctx context.Context) (models.EconomySettings, error) {
	var cfg models.EconomySettings
	err := s.doc.View(ctx, func(d *models.EconomyDocument) error {
		cfg = *d.Global()
		return nil
	})
	return cfg, err
}

// SetSetting changes one key from its textual value.
func (s *Service) SetSetting(ctx context.Context, key, raw string) (models.EconomySettings, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return models.EconomySettings{}, &SettingError{Key: key, Reason: "el valor debe ser numérico"}
	}
	if err := CheckSetting(key, value); err != nil {
		return models.EconomySettings{}, err
	}

	var updated models.EconomySettings
	err = s.doc.Update(ctx, func(d *models.EconomyDocument) error {
		m, err := settingsMap(*d.Global())
		if err != nil {
			return err
		}
		if _, ok := m[key]; !ok {
			return errors.WithDetails(ErrUnknownSetting, "key", key)
		}
		if fractional(key) {
			m[key] = value
		} else {
			m[key] = int64(value)
		}

		raw, err := json.Marshal(m)
		if err != nil {
			return err
		}
		var next models.EconomySettings
		if err := json.Unmarshal(raw, &next); err != nil {
			return err
		}
		if err := s.validate.Struct(next); err != nil {
			return translate(err)
		}
		*d.Global() = next
		updated = next
		return nil
	})
	return updated, err
}

// ReplaceSettings validates and stores a complete settings object.
func (s *Service) ReplaceSettings(ctx context.Context, next models.EconomySettings) error {
	m, err := settingsMap(next)
	if err != nil {
		return err
	}
	for key, v := range m {
		f, ok := v.(float64)
		if !ok {
			continue
		}
		if err := CheckSetting(key, f); err != nil {
			return err
		}
	}
	if err := s.validate.Struct(next); err != nil {
		return translate(err)
	}
	return s.doc.Update(ctx, func(d *models.EconomyDocument) error {
		*d.Global() = next
		return nil
	})
}
