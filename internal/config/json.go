package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// StructuredJSONConfig mirrors [StructuredConfig] with json tags for the
// optional configuration file.
type StructuredJSONConfig struct {
	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`

		Files struct {
			ImagesDir string `json:"images_dir"`
		} `json:"files,omitempty"`

		Cache struct {
			Dir string `json:"dir"`
		} `json:"cache,omitempty"`

		Prefs struct {
			File string `json:"file"`
		} `json:"prefs,omitempty"`
	} `json:"storage,omitempty"`

	Drive struct {
		CredentialsFile string `json:"credentials_file"`
		TokenDir        string `json:"token_dir"`
		ListPageSize    int64  `json:"list_page_size"`
	} `json:"drive,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		Storage: Storage{
			DB:    DB{DSN: jsonCfg.Storage.DB.DSN},
			Files: Files{ImagesDir: jsonCfg.Storage.Files.ImagesDir},
			Cache: Cache{Dir: jsonCfg.Storage.Cache.Dir},
			Prefs: Prefs{File: jsonCfg.Storage.Prefs.File},
		},
		Drive: Drive{
			CredentialsFile: jsonCfg.Drive.CredentialsFile,
			TokenDir:        jsonCfg.Drive.TokenDir,
			ListPageSize:    jsonCfg.Drive.ListPageSize,
		},
	}, nil
}
