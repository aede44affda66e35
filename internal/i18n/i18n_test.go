package i18n

import "testing"

func TestEnglishFallback(t *testing.T) {
	i := New("en")
	if got := i.T("err.network"); got == "err.network" || got == "" {
		t.Fatalf("got %q", got)
	}
}

func TestChineseOverlay(t *testing.T) {
	i := New("zh-CN")
	if i.Locale() != "zh-CN" {
		t.Fatalf("locale=%q", i.Locale())
	}
	en := New("en")
	if i.T("tab.chat") == en.T("tab.chat") {
		t.Fatalf("zh catalog not applied for tab.chat")
	}
}

func TestMissingKeyReturnsKey(t *testing.T) {
	i := New("en")
	if got := i.T("no.such.key"); got != "no.such.key" {
		t.Fatalf("got %q", got)
	}
}

func TestFormatArgs(t *testing.T) {
	i := New("en")
	got := i.T("downloads.job", int64(7))
	if got != "Job #7" {
		t.Fatalf("got %q", got)
	}
}

func TestNormalizeLocale(t *testing.T) {
	cases := map[string]string{
		"":            "en",
		"en_US.UTF-8": "en",
		"en-GB":       "en",
		"zh_CN.UTF-8": "zh-CN",
		"zh-TW":       "zh-CN",
		"fr_FR":       "fr-FR",
	}
	for in, want := range cases {
		if got := normalizeLocale(in); got != want {
			t.Fatalf("normalizeLocale(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestCatalogsCoverSameKeys(t *testing.T) {
	for k := range ZhCNMessages {
		if _, ok := EnMessages[k]; !ok {
			t.Fatalf("zh key %q missing from en catalog", k)
		}
	}
}
