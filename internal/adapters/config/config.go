package config

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/Badsnus/cu-events-notifier/internal/adapters/database/keychain"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/database/memory"
	postgresStorage "github.com/Badsnus/cu-events-notifier/internal/adapters/database/postgres"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/database/redis"
	"github.com/Badsnus/cu-events-notifier/internal/adapters/database/sqlite"
	"github.com/Badsnus/cu-events-notifier/internal/domain/service"
	"github.com/Badsnus/cu-events-notifier/internal/domain/utils/location"
	"github.com/Badsnus/cu-events-notifier/pkg/logger"
)

const (
	SlotBackendMemory   = "memory"
	SlotBackendRedis    = "redis"
	SlotBackendSQLite   = "sqlite"
	SlotBackendKeychain = "keychain"
)

// SlotStorage is a key-value slot holding one string value per key
type SlotStorage interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string) error
	Remove(ctx context.Context, key string) error
}

type Config struct {
	Database *gorm.DB
	Slots    SlotStorage

	closers []io.Closer
}

// Close releases the slot backend connections
func (c *Config) Close() {
	for _, closer := range c.closers {
		if err := closer.Close(); err != nil {
			logger.Log.Warnf("Failed to close connection: %v", err)
		}
	}
}

func setDefaults() {
	viper.SetDefault("settings.timezone", "America/New_York")
	viper.SetDefault("settings.display", "tui")
	viper.SetDefault("settings.logs-dir", "logs")
	viper.SetDefault("notifications.poll-interval", service.DefaultPollInterval)
	viper.SetDefault("notifications.display-duration", service.DefaultDisplayDuration)
	viper.SetDefault("notifications.settle-delay", service.DefaultSettleDelay)
	viper.SetDefault("notifications.shown-key", service.DefaultShownEventsKey)
	viper.SetDefault("notifications.storage", SlotBackendSQLite)
	viper.SetDefault("service.database.port", 5432)
	viper.SetDefault("service.redis.port", "6379")
	viper.SetDefault("service.sqlite.path", "cu-events.db")
	viper.SetDefault("session.audience", "authenticated")
}

func initConfig(path string) {
	setDefaults()
	viper.SetEnvPrefix("CU_EVENTS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if path != "" {
		viper.SetConfigFile(path)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
	}

	if err := viper.ReadInConfig(); err != nil {
		panic(err)
	}
}

// Get reads the configuration file, initializes logging and opens every storage
func Get(path string) *Config {
	initConfig(path)

	if err := location.Init(viper.GetString("settings.timezone")); err != nil {
		panic(err)
	}

	err := logger.Init(logger.Config{
		Debug:        viper.GetBool("settings.debug"),
		TimeLocation: location.Location(),
		LogToFile:    viper.GetBool("settings.log-to-file"),
		LogsDir:      viper.GetString("settings.logs-dir"),
		Console:      viper.GetString("settings.display") != "tui",
	})
	if err != nil {
		panic(err)
	}

	cfg := &Config{
		Database: openDatabase(),
	}

	slots, closer, err := openSlots(context.Background(), viper.GetString("notifications.storage"))
	if err != nil {
		logger.Log.Panicf("Failed to open %s slot storage: %v", viper.GetString("notifications.storage"), err)
	}
	logger.Log.Infof("Shown events are kept in %s storage", viper.GetString("notifications.storage"))
	cfg.Slots = slots
	if closer != nil {
		cfg.closers = append(cfg.closers, closer)
	}

	return cfg
}

func openDatabase() *gorm.DB {
	gormConfig := &gorm.Config{SkipDefaultTransaction: true}
	if viper.GetBool("settings.debug") {
		gormConfig.Logger = gormLogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormLogger.Config{
				SlowThreshold: time.Second,
				LogLevel:      gormLogger.Info,
				Colorful:      true,
			},
		)
	} else {
		gormConfig.Logger = gormLogger.Default.LogMode(gormLogger.Silent)
	}

	dsn := fmt.Sprintf("user=%s password=%s dbname=%s host=%s port=%d sslmode=disable TimeZone=%s",
		viper.GetString("service.database.user"),
		viper.GetString("service.database.password"),
		viper.GetString("service.database.name"),
		viper.GetString("service.database.host"),
		viper.GetInt("service.database.port"),
		location.Location().String(),
	)

	database, err := gorm.Open(postgres.Open(dsn), gormConfig)
	if err != nil {
		logger.Log.Panicf("Failed to connect to the database: %v", err)
	} else {
		logger.Log.Info("Successfully connected to the database")
	}

	if viper.GetBool("service.database.migrate") {
		if errMigrate := database.AutoMigrate(postgresStorage.Migrations...); errMigrate != nil {
			logger.Log.Panicf("Failed to migrate database: %v", errMigrate)
		}
	}

	return database
}

func openSlots(ctx context.Context, backend string) (SlotStorage, io.Closer, error) {
	switch backend {
	case SlotBackendMemory:
		return memory.NewStorage(), nil, nil
	case SlotBackendRedis:
		client, err := redis.New(ctx, redis.Options{
			Host:     viper.GetString("service.redis.host"),
			Port:     viper.GetString("service.redis.port"),
			Password: viper.GetString("service.redis.password"),
			DB:       viper.GetInt("service.redis.db"),
			Prefix:   viper.GetString("service.redis.prefix"),
		})
		if err != nil {
			return nil, nil, err
		}
		return client.Slots, client, nil
	case SlotBackendSQLite:
		path := viper.GetString("service.sqlite.path")
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		storage, err := sqlite.NewStorage(path)
		if err != nil {
			return nil, nil, err
		}
		return storage, storage, nil
	case SlotBackendKeychain:
		storage, err := keychain.Open(
			viper.GetString("service.keychain.file-dir"),
			viper.GetString("service.keychain.file-password"),
		)
		if err != nil {
			return nil, nil, err
		}
		return storage, nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown slot storage %q", backend)
	}
}
