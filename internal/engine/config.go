package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"frontline-server/internal/systems"

	"github.com/spf13/viper"
)

// EnvPrefix - префикс переменных окружения: FRONTLINE_SEED, FRONTLINE_SERVER_PORT...
const EnvPrefix = "FRONTLINE"

// Config хранит параметры запуска сессии и окружения
type Config struct {
	// Seed - зерно рандома сессии. 0 - взять от текущего времени.
	Seed       int64  `mapstructure:"seed"`
	Scenario   string `mapstructure:"scenario"`
	Difficulty string `mapstructure:"difficulty"`
	// TickRate - тиков в секунду у Runner.
	TickRate int `mapstructure:"tickRate"`

	Server    ServerConfig           `mapstructure:"server"`
	Log       LogConfig              `mapstructure:"log"`
	Storage   StorageConfig          `mapstructure:"storage"`
	Resources systems.ResourceConfig `mapstructure:"resources"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// StorageConfig - журнал боев. Driver: sqlite или postgres.
// ReplayDir - каталог файлов повтора, пусто - не писать.
type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	DSN       string `mapstructure:"dsn"`
	ReplayDir string `mapstructure:"replayDir"`
}

// NewConfig создает конфиг по умолчанию (случайный сид)
func NewConfig() Config {
	res := systems.DefaultResourceConfig()
	return Config{
		Seed:       time.Now().UnixNano(),
		Scenario:   "overlord",
		Difficulty: "medium",
		TickRate:   60,
		Server:     ServerConfig{Port: "8080"},
		Log:        LogConfig{Level: "info", Format: "text"},
		Storage:    StorageConfig{Driver: "sqlite", Path: "frontline.db", ReplayDir: "replays"},
		Resources:  res,
	}
}

func setDefaults(v *viper.Viper) {
	def := NewConfig()

	v.SetDefault("seed", 0)
	v.SetDefault("scenario", def.Scenario)
	v.SetDefault("difficulty", def.Difficulty)
	v.SetDefault("tickRate", def.TickRate)

	v.SetDefault("server.port", def.Server.Port)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)

	v.SetDefault("storage.enabled", false)
	v.SetDefault("storage.driver", def.Storage.Driver)
	v.SetDefault("storage.path", def.Storage.Path)
	v.SetDefault("storage.dsn", "")
	v.SetDefault("storage.replayDir", def.Storage.ReplayDir)

	r := def.Resources
	v.SetDefault("resources.moneyRate", r.MoneyRate)
	v.SetDefault("resources.fuelPerMovingUnit", r.FuelPerMovingUnit)
	v.SetDefault("resources.ammoPerAttackingUnit", r.AmmoPerAttackingUnit)
	v.SetDefault("resources.reinforcementCooldown", r.ReinforcementCooldown)
	v.SetDefault("resources.supplyRate", r.SupplyRate)
	v.SetDefault("resources.factoryMoneyBonus", r.FactoryMoneyBonus)
	v.SetDefault("resources.depotSupplyBonus", r.DepotSupplyBonus)
	v.SetDefault("resources.max.money", r.Max.Money)
	v.SetDefault("resources.max.fuel", r.Max.Fuel)
	v.SetDefault("resources.max.ammunition", r.Max.Ammunition)
	v.SetDefault("resources.max.reinforcements", r.Max.Reinforcements)
	v.SetDefault("resources.max.supply", r.Max.Supply)
}

// LoadConfig читает конфиг: значения по умолчанию, затем файл (если path не пуст),
// затем переменные окружения FRONTLINE_*.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		v.SetConfigName("frontline")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}
	return cfg, nil
}

// DifficultyLevel - разобранная сложность.
func (c Config) DifficultyLevel() systems.Difficulty {
	return systems.ParseDifficulty(c.Difficulty)
}

// TickInterval - период тика Runner.
func (c Config) TickInterval() time.Duration {
	rate := c.TickRate
	if rate <= 0 {
		rate = 60
	}
	return time.Second / time.Duration(rate)
}
