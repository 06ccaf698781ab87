// Package app wires the application components together and runs the download pipeline.
package app
