package config

import (
	"flag"
	"os"
)

// ParseFlags parses all configuration flags from the process arguments.
//
// Flags:
//
//	-d database file path
//	-images image directory path
//	-cache scratch cache directory path
//	-prefs preferences file path
//	-drive-credentials OAuth client credentials JSON path
//	-drive-tokens directory with per-account OAuth token files
//	-drive-page-size remote listing page size
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	return parseFlagsFrom(flag.CommandLine, os.Args[1:])
}

func parseFlagsFrom(fs *flag.FlagSet, args []string) *StructuredConfig {
	var (
		databasePath    string
		imagesDir       string
		cacheDir        string
		prefsFile       string
		credentialsFile string
		tokenDir        string
		pageSize        int64
		jsonConfigPath  string
	)

	fs.StringVar(&databasePath, "d", "", "Database file path")
	fs.StringVar(&imagesDir, "images", "", "Image directory path")
	fs.StringVar(&cacheDir, "cache", "", "Scratch cache directory path")
	fs.StringVar(&prefsFile, "prefs", "", "Preferences file path")
	fs.StringVar(&credentialsFile, "drive-credentials", "", "OAuth client credentials JSON path")
	fs.StringVar(&tokenDir, "drive-tokens", "", "Directory with per-account OAuth token files")
	fs.Int64Var(&pageSize, "drive-page-size", 0, "Remote listing page size")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	_ = fs.Parse(args)

	return &StructuredConfig{
		Storage: Storage{
			DB:    DB{DSN: databasePath},
			Files: Files{ImagesDir: imagesDir},
			Cache: Cache{Dir: cacheDir},
			Prefs: Prefs{File: prefsFile},
		},
		Drive: Drive{
			CredentialsFile: credentialsFile,
			TokenDir:        tokenDir,
			ListPageSize:    pageSize,
		},
		JSONFilePath: jsonConfigPath,
		Args:         fs.Args(),
	}
}
