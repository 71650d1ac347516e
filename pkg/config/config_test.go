package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Set up test environment variables
	os.Setenv("botToken", "test-token")
	os.Setenv("PORT", "3001")
	os.Setenv("enviroment", "test")
	defer func() {
		os.Unsetenv("botToken")
		os.Unsetenv("PORT")
		os.Unsetenv("enviroment")
	}()

	// Reset global config
	resetForTesting()

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.BotToken != "test-token" {
		t.Errorf("BotToken = %v, want %v", config.BotToken, "test-token")
	}

	if config.Port != "3001" {
		t.Errorf("Port = %v, want %v", config.Port, "3001")
	}

	if config.Environment != "test" {
		t.Errorf("Environment = %v, want %v", config.Environment, "test")
	}
}

func TestGetEnv(t *testing.T) {
	os.Setenv("TEST_VAR", "test-value")
	defer os.Unsetenv("TEST_VAR")

	if got := getEnv("TEST_VAR", "default"); got != "test-value" {
		t.Errorf("getEnv() = %v, want %v", got, "test-value")
	}

	if got := getEnv("NON_EXISTENT_VAR", "default"); got != "default" {
		t.Errorf("getEnv() = %v, want %v", got, "default")
	}
}

func TestIsProd(t *testing.T) {
	resetForTesting()
	os.Setenv("enviroment", "prod")
	config, _ := Load()

	if !config.IsProd() {
		t.Error("IsProd() should return true when environment is 'prod'")
	}

	resetForTesting()
	os.Setenv("enviroment", "dev")
	config, _ = Load()

	if config.IsProd() {
		t.Error("IsProd() should return false when environment is not 'prod'")
	}

	os.Unsetenv("enviroment")
}

func TestGet(t *testing.T) {
	resetForTesting()

	// Get should create a new config if none exists
	config := Get()
	if config == nil {
		t.Fatal("Get() returned nil")
	}

	// Get should return the same config on subsequent calls
	config2 := Get()
	if config != config2 {
		t.Error("Get() should return the same config on subsequent calls")
	}
}

func TestDefaultValues(t *testing.T) {
	// Clear all environment variables
	os.Unsetenv("botToken")
	os.Unsetenv("devGuildId")
	os.Unsetenv("mongodbUrl")
	os.Unsetenv("dbName")
	os.Unsetenv("MQTT_Host")
	os.Unsetenv("MQTT_Port")
	os.Unsetenv("PORT")
	os.Unsetenv("enviroment")
	os.Unsetenv("storage")
	os.Unsetenv("dataDir")

	resetForTesting()
	config, _ := Load()

	// Check default values
	if config.MongoDBURL != "mongodb://localhost:27017" {
		t.Errorf("MongoDBURL default = %v, want %v", config.MongoDBURL, "mongodb://localhost:27017")
	}

	if config.DBName != "CompanionBot" {
		t.Errorf("DBName default = %v, want %v", config.DBName, "CompanionBot")
	}

	if config.Storage != "file" {
		t.Errorf("Storage default = %v, want %v", config.Storage, "file")
	}

	if config.DataDir != "data" {
		t.Errorf("DataDir default = %v, want %v", config.DataDir, "data")
	}

	if config.MQTTHost != "localhost" {
		t.Errorf("MQTTHost default = %v, want %v", config.MQTTHost, "localhost")
	}

	if config.MQTTPort != "1883" {
		t.Errorf("MQTTPort default = %v, want %v", config.MQTTPort, "1883")
	}

	if config.Port != "3000" {
		t.Errorf("Port default = %v, want %v", config.Port, "3000")
	}

	if config.Environment != "dev" {
		t.Errorf("Environment default = %v, want %v", config.Environment, "dev")
	}
}

func TestOwnerIDList(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty", "", nil},
		{"single", "123", []string{"123"}},
		{"spaces and blanks", " 123 , ,456,", []string{"123", "456"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &Config{OwnerIDs: tt.input}
			got := c.OwnerIDList()
			if len(got) != len(tt.want) {
				t.Fatalf("OwnerIDList() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("OwnerIDList()[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}

	c := &Config{OwnerIDs: "1,2"}
	if !c.IsOwner("2") {
		t.Error("IsOwner() should return true for a listed id")
	}
	if c.IsOwner("3") {
		t.Error("IsOwner() should return false for an unknown id")
	}
}

func TestOAuthRedirectURL(t *testing.T) {
	c := &Config{DashboardURL: "https://panel.example.com/"}
	if got := c.OAuthRedirectURL(); got != "https://panel.example.com/callback" {
		t.Errorf("OAuthRedirectURL() = %v, want %v", got, "https://panel.example.com/callback")
	}

	c.RedirectURL = "https://auth.example.com/cb"
	if got := c.OAuthRedirectURL(); got != "https://auth.example.com/cb" {
		t.Errorf("OAuthRedirectURL() = %v, want %v", got, "https://auth.example.com/cb")
	}
}

func TestUseMongo(t *testing.T) {
	if (&Config{Storage: "file"}).UseMongo() {
		t.Error("UseMongo() should return false for file storage")
	}
	if !(&Config{Storage: "Mongo"}).UseMongo() {
		t.Error("UseMongo() should be case insensitive")
	}
}
