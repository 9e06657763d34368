package version

import "testing"

func TestString(t *testing.T) {
	orig := [3]string{Version, Commit, BuildTime}
	t.Cleanup(func() { Version, Commit, BuildTime = orig[0], orig[1], orig[2] })

	Version, Commit, BuildTime = "1.2.3", "abc1234", "2026-01-02T03:04:05Z"

	if got, want := String(), "1.2.3 (abc1234) built 2026-01-02T03:04:05Z"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	if got, want := UserAgent(), "ouc-dashboard/1.2.3"; got != want {
		t.Errorf("UserAgent() = %q, want %q", got, want)
	}

	info := Current()
	if info.Version != "1.2.3" || info.Commit != "abc1234" || info.BuildTime != "2026-01-02T03:04:05Z" {
		t.Errorf("Current() = %+v", info)
	}
}

func TestDefaults(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default")
	}
	if UserAgent() == "ouc-dashboard/" {
		t.Error("UserAgent should include the version")
	}
}
