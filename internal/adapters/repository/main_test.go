package repository_test

import (
	"io"
	"os"
	"testing"

	"github.com/devakmmm/LeetInsight/pkg/logger"
)

func TestMain(m *testing.M) {
	if err := logger.InitWriter(io.Discard, logger.FormatText); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}
