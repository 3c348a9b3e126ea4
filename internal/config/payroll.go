package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// PayrollConfig carries the tunable payroll thresholds. Amounts are cents,
// shares and ratios are fractions.
type PayrollConfig struct {
	SMICHourlyCents      int64   `mapstructure:"smicHourlyCents"`
	StandardMonthlyHours float64 `mapstructure:"standardMonthlyHours"`
	WorkingDaysPerMonth  int     `mapstructure:"workingDaysPerMonth"`

	// TicketPatronalShare is the employer share of each meal ticket; the
	// employee share is the remainder.
	TicketUnitCents     int64   `mapstructure:"ticketUnitCents"`
	TicketPatronalShare float64 `mapstructure:"ticketPatronalShare"`

	HighGrossCents   int64   `mapstructure:"highGrossCents"`
	MaxOvertimeHours float64 `mapstructure:"maxOvertimeHours"`
	MaxAbsenceHours  float64 `mapstructure:"maxAbsenceHours"`
	ChargeRatioMin   float64 `mapstructure:"chargeRatioMin"`
	ChargeRatioMax   float64 `mapstructure:"chargeRatioMax"`

	AnomalyThreshold   float64 `mapstructure:"anomalyThreshold"`
	AutoConfidence     float64 `mapstructure:"autoConfidence"`
	ProrateMinDeltaPct float64 `mapstructure:"prorateMinDeltaPct"`
	ReviewWorkers      int     `mapstructure:"reviewWorkers"`
}

func DefaultPayrollConfig() PayrollConfig {
	return PayrollConfig{
		SMICHourlyCents:      1188, // 11.88 EUR, late 2024
		StandardMonthlyHours: 169,
		WorkingDaysPerMonth:  22,

		TicketUnitCents:     900,
		TicketPatronalShare: 0.60,

		HighGrossCents:   10_000_000,
		MaxOvertimeHours: 48,
		MaxAbsenceHours:  80,
		ChargeRatioMin:   0.10,
		ChargeRatioMax:   0.50,

		AnomalyThreshold:   0.15,
		AutoConfidence:     0.95,
		ProrateMinDeltaPct: 0.10,
		ReviewWorkers:      4,
	}
}

type PayrollConfigHolder struct {
	current atomic.Value // holds PayrollConfig
}

func NewPayrollConfigHolder() (*PayrollConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("payroll")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/monapaie/config")
	v.AddConfigPath("/etc/monapaie")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MONAPAIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setPayrollDefaults(v, DefaultPayrollConfig())

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg, err := unmarshalPayroll(v)
	if err != nil {
		return nil, err
	}

	holder := &PayrollConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(_ fsnotify.Event) {
		next, err := unmarshalPayroll(v)
		if err != nil {
			log.Printf("payroll config reload rejected: %v", err)
			return
		}
		holder.current.Store(next)
	})

	return holder, nil
}

// NewStaticPayrollConfigHolder wraps a fixed config, without file watching.
func NewStaticPayrollConfigHolder(cfg PayrollConfig) *PayrollConfigHolder {
	holder := &PayrollConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

// Current returns the latest validated config snapshot.
func (h *PayrollConfigHolder) Current() PayrollConfig {
	return h.current.Load().(PayrollConfig)
}

func unmarshalPayroll(v *viper.Viper) (PayrollConfig, error) {
	var cfg PayrollConfig
	if err := v.UnmarshalKey("payroll", &cfg); err != nil {
		return PayrollConfig{}, err
	}
	if err := validatePayrollConfig(cfg); err != nil {
		return PayrollConfig{}, err
	}
	return cfg, nil
}

func setPayrollDefaults(v *viper.Viper, defaults PayrollConfig) {
	v.SetDefault("payroll.smicHourlyCents", defaults.SMICHourlyCents)
	v.SetDefault("payroll.standardMonthlyHours", defaults.StandardMonthlyHours)
	v.SetDefault("payroll.workingDaysPerMonth", defaults.WorkingDaysPerMonth)
	v.SetDefault("payroll.ticketUnitCents", defaults.TicketUnitCents)
	v.SetDefault("payroll.ticketPatronalShare", defaults.TicketPatronalShare)
	v.SetDefault("payroll.highGrossCents", defaults.HighGrossCents)
	v.SetDefault("payroll.maxOvertimeHours", defaults.MaxOvertimeHours)
	v.SetDefault("payroll.maxAbsenceHours", defaults.MaxAbsenceHours)
	v.SetDefault("payroll.chargeRatioMin", defaults.ChargeRatioMin)
	v.SetDefault("payroll.chargeRatioMax", defaults.ChargeRatioMax)
	v.SetDefault("payroll.anomalyThreshold", defaults.AnomalyThreshold)
	v.SetDefault("payroll.autoConfidence", defaults.AutoConfidence)
	v.SetDefault("payroll.prorateMinDeltaPct", defaults.ProrateMinDeltaPct)
	v.SetDefault("payroll.reviewWorkers", defaults.ReviewWorkers)
}

func validatePayrollConfig(cfg PayrollConfig) error {
	if cfg.SMICHourlyCents <= 0 {
		return errors.New("smicHourlyCents must be positive")
	}
	if cfg.StandardMonthlyHours <= 0 {
		return errors.New("standardMonthlyHours must be positive")
	}
	if cfg.WorkingDaysPerMonth <= 0 {
		return errors.New("workingDaysPerMonth must be positive")
	}
	if cfg.TicketPatronalShare < 0 || cfg.TicketPatronalShare > 1 {
		return errors.New("ticketPatronalShare must be in [0,1]")
	}
	if cfg.ChargeRatioMin < 0 || cfg.ChargeRatioMax <= cfg.ChargeRatioMin {
		return errors.New("charge ratio band is inverted")
	}
	if cfg.AnomalyThreshold <= 0 {
		return errors.New("anomalyThreshold must be positive")
	}
	if cfg.AutoConfidence <= 0 || cfg.AutoConfidence > 1 {
		return errors.New("autoConfidence must be in (0,1]")
	}
	if cfg.ReviewWorkers < 1 {
		return errors.New("reviewWorkers must be at least 1")
	}
	return nil
}
