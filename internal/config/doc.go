// Package config loads the service Settings from the process environment
// and an optional .env file.
//
// Settings is built once at process start by Load and handed to whatever
// needs it by value. There is no package-level instance.
package config
