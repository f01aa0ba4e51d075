package core

import (
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	ServerConfig struct {
		Address         string        `mapstructure:"address"`
		Host            string        `mapstructure:"host"`
		DebugHost       string        `mapstructure:"debugHost"`
		ReadTimeout     time.Duration `mapstructure:"readTimeout"`
		WriteTimeout    time.Duration `mapstructure:"writeTimeout"`
		ShutdownTimeout time.Duration `mapstructure:"shutdownTimeout"`
		DisableReqLogs  bool          `mapstructure:"disableReqLogs"`
		AllowedOrigins  []string      `mapstructure:"allowedOrigins"`
	}

	LogConfig struct {
		File       string `mapstructure:"file"`
		MaxSize    int    `mapstructure:"maxSize"` // megabytes
		MaxBackups int    `mapstructure:"maxBackups"`
		MaxAge     int    `mapstructure:"maxAge"` // days
	}

	ClassesConfig struct {
		SeedOnStart bool `mapstructure:"seedOnStart"`
	}

	AdminConfig struct {
		APIURL string `mapstructure:"apiURL"`
	}

	Config struct {
		AppName      string        `mapstructure:"appName"`
		Build        string        `mapstructure:"build"`
		Env          string        `mapstructure:"env"`
		Debug        bool          `mapstructure:"debug"`
		TestMode     bool          `mapstructure:"testMode"`
		WorkDir      string        `mapstructure:"workDir"`
		RollbarToken string        `mapstructure:"rollbarToken"`
		Server       ServerConfig  `mapstructure:"server"`
		Log          LogConfig     `mapstructure:"log"`
		Classes      ClassesConfig `mapstructure:"classes"`
		Admin        AdminConfig   `mapstructure:"admin"`
	}
)

// NewConfig loads the application Config from defaults, an optional
// config/.env.<env> file and the environment.
//
// ENV selects the environment: DEV (local; default), TEST, QA, PROD.
// Every key can be overridden with an env var prefixed by the environment,
// e.g. DEV_SERVER_ADDRESS or PROD_ROLLBARTOKEN.
func NewConfig() *Config {
	conf := viper.New()

	env := strings.ToUpper(os.Getenv("ENV"))
	if env == "" {
		env = "DEV"
	}

	wd, err := os.Getwd()
	if err != nil {
		log.Fatalf("config.os.Getwd(): %v", err)
	}
	if root := os.Getenv("WORK_DIR"); root != "" {
		wd = root
	}

	// defaults
	conf.SetTypeByDefaultValue(true)
	conf.SetDefault("appName", "PGG")
	conf.SetDefault("build", "develop")
	conf.SetDefault("env", env)
	conf.SetDefault("debug", env == "DEV")
	conf.SetDefault("testMode", env == "TEST")
	conf.SetDefault("workDir", wd)
	conf.SetDefault("rollbarToken", "")

	conf.SetDefault("server.address", ":8080")
	conf.SetDefault("server.host", "localhost")
	conf.SetDefault("server.debugHost", ":4000")
	conf.SetDefault("server.readTimeout", 5*time.Second)
	conf.SetDefault("server.writeTimeout", 10*time.Second)
	conf.SetDefault("server.shutdownTimeout", 5*time.Second)
	conf.SetDefault("server.disableReqLogs", false)
	conf.SetDefault("server.allowedOrigins", []string{"http://localhost:5173"})

	conf.SetDefault("log.file", "")
	conf.SetDefault("log.maxSize", 100)
	conf.SetDefault("log.maxBackups", 3)
	conf.SetDefault("log.maxAge", 28)

	conf.SetDefault("classes.seedOnStart", false)

	conf.SetDefault("admin.apiURL", "http://localhost:8080")

	// load .env if it exists (ignore if it does not)
	dotEnvPath := filepath.Join(wd, "config", ".env."+strings.ToLower(env))
	if _, err := os.Stat(dotEnvPath); err == nil {
		if err := godotenv.Load(dotEnvPath); err != nil {
			log.Fatalf("config.godotenv(%s): %v", dotEnvPath, err)
		}
	} else if !os.IsNotExist(err) {
		log.Fatalf("config.os.Stat(%s): %v", dotEnvPath, err)
	}

	conf.SetEnvPrefix(env)
	conf.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	conf.AutomaticEnv()

	var c Config
	if err := conf.Unmarshal(&c); err != nil {
		log.Fatalf("config.Unmarshal(): %v", err)
	}
	return &c
}
