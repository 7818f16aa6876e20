package version

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	if info.Version == "" || info.GoVersion == "" {
		t.Fatalf("GetVersionInfo() = %+v", info)
	}
	if !strings.Contains(info.String(), "Version: "+info.Version) {
		t.Errorf("String() = %q", info.String())
	}

	out, err := info.JSON()
	if err != nil {
		t.Fatal(err)
	}
	var decoded Info
	if err := json.Unmarshal([]byte(out), &decoded); err != nil || decoded.Version != info.Version {
		t.Errorf("JSON() = %s, %v", out, err)
	}
}

func TestShortRevision(t *testing.T) {
	if got := shortRevision("0123456789abcdef"); got != "0123456" {
		t.Errorf("shortRevision() = %q", got)
	}
	if got := shortRevision("abc"); got != "abc" {
		t.Errorf("shortRevision() = %q", got)
	}
}
