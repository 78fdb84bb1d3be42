// Package utils holds small file and path helpers shared by the commands
// and the configuration layer.
package utils
