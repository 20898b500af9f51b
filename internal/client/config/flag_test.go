package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name string
		args []string
		want Config
	}{
		{
			name: "no flags keeps existing values",
			args: []string{"comicshelf", "sync"},
			want: Config{ServerURL: "http://base:1", DatabaseDSN: "base.db", SyncInterval: time.Minute},
		},
		{
			name: "all flags set",
			args: []string{"comicshelf", "-a", "http://sync.example:9000", "-d", "library.db", "-i", "45"},
			want: Config{ServerURL: "http://sync.example:9000", DatabaseDSN: "library.db", SyncInterval: 45 * time.Second},
		},
		{
			name: "partial override",
			args: []string{"comicshelf", "-d", "other.db", "autosync"},
			want: Config{ServerURL: "http://base:1", DatabaseDSN: "other.db", SyncInterval: time.Minute},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args

			cfg := Config{ServerURL: "http://base:1", DatabaseDSN: "base.db", SyncInterval: time.Minute}
			parseFlags(&cfg)

			if diff := cmp.Diff(tt.want, cfg); diff != "" {
				t.Errorf("parseFlags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
