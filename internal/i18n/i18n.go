// Package i18n provides message lookup and number formatting for the UI
// languages.
package i18n

import (
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Supported languages.
const (
	English = "en"
	Persian = "fa"
)

// DefaultLanguage is used for unknown language codes and missing keys.
const DefaultLanguage = English

var catalogs = map[string]map[string]string{
	English: {
		"app.title":             "OpenPos",
		"app.loading":           "Loading positions...",
		"app.retrying":          "Attempt {attempt}/{max} failed, retrying in {delay}",
		"app.refreshed":         "Updated {time}",
		"error.unauthorized":    "Access denied. Check your API credentials.",
		"error.notFound":        "Positions endpoint not found.",
		"error.client":          "The request was rejected (HTTP {status}).",
		"error.server":          "The server failed after {attempts} attempts.",
		"error.network":         "Cannot reach the positions API after {attempts} attempts.",
		"error.malformed":       "The server returned data in an unexpected format.",
		"error.allInvalid":      "None of the {total} positions passed validation.",
		"error.unknown":         "Something went wrong: {error}",
		"empty.noData":          "No positions to show.",
		"empty.filtered":        "No positions match the current filters.",
		"toast.partialInvalid":  "{count} of {total} positions were skipped (invalid data).",
		"toast.themeChanged":    "Theme: {theme}",
		"toast.languageChanged": "Language: English",
		"toast.saveFailed":      "Could not save preferences.",
		"filter.label":          "Type",
		"filter.all":            "all",
		"search.label":          "Search",
		"search.placeholder":    "symbol...",
		"sort.label":            "Sort",
		"summary.shown":         "{shown}/{total} shown",
		"summary.split":         "{long} long · {short} short",
		"summary.pnl":           "PnL {pnl}",
		"summary.leverage":      "avg {leverage}x",
		"card.entry":            "Entry",
		"card.amount":           "Amount",
		"card.leverage":         "Leverage",
		"card.pnl":              "PnL",
		"card.user":             "User",
		"card.opened":           "Opened",
		"list.more":             "Scroll or press n for more ({remaining} left)",
		"list.end":              "End of list",
	},
	Persian: {
		"app.title":             "OpenPos",
		"app.loading":           "در حال دریافت پوزیشن‌ها...",
		"app.retrying":          "تلاش {attempt}/{max} ناموفق بود، تلاش مجدد پس از {delay}",
		"app.refreshed":         "به‌روزرسانی {time}",
		"error.unauthorized":    "دسترسی رد شد. اعتبارنامه API را بررسی کنید.",
		"error.notFound":        "آدرس پوزیشن‌ها پیدا نشد.",
		"error.client":          "درخواست رد شد (HTTP {status}).",
		"error.server":          "سرور پس از {attempts} تلاش پاسخ نداد.",
		"error.network":         "پس از {attempts} تلاش به API دسترسی نیست.",
		"error.malformed":       "داده‌های سرور در قالب مورد انتظار نیست.",
		"error.allInvalid":      "هیچ‌یک از {total} پوزیشن معتبر نبود.",
		"error.unknown":         "خطایی رخ داد: {error}",
		"empty.noData":          "پوزیشنی برای نمایش وجود ندارد.",
		"empty.filtered":        "هیچ پوزیشنی با فیلترها مطابقت ندارد.",
		"toast.partialInvalid":  "{count} از {total} پوزیشن نامعتبر بود و نمایش داده نشد.",
		"toast.themeChanged":    "پوسته: {theme}",
		"toast.languageChanged": "زبان: فارسی",
		"toast.saveFailed":      "ذخیره تنظیمات ناموفق بود.",
		"filter.label":          "نوع",
		"filter.all":            "همه",
		"search.label":          "جستجو",
		"search.placeholder":    "نماد...",
		"sort.label":            "مرتب‌سازی",
		"summary.shown":         "{shown}/{total} نمایش",
		"summary.split":         "{long} خرید · {short} فروش",
		"summary.pnl":           "سود/زیان {pnl}",
		"summary.leverage":      "میانگین {leverage}x",
		"card.entry":            "ورود",
		"card.amount":           "مقدار",
		"card.leverage":         "اهرم",
		"card.pnl":              "سود/زیان",
		"card.user":             "کاربر",
		"card.opened":           "زمان",
		"list.more":             "برای موارد بیشتر اسکرول کنید یا n را بزنید ({remaining} باقی‌مانده)",
		"list.end":              "پایان فهرست",
	},
}

// Languages returns the supported language codes, sorted.
func Languages() []string {
	out := make([]string, 0, len(catalogs))
	for lang := range catalogs {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether lang has a catalog.
func Supported(lang string) bool {
	_, ok := catalogs[lang]
	return ok
}

// Next cycles to the language after lang.
func Next(lang string) string {
	langs := Languages()
	for i, l := range langs {
		if l == lang {
			return langs[(i+1)%len(langs)]
		}
	}
	return DefaultLanguage
}

// Translator looks up messages for one language.
type Translator struct {
	lang    string
	printer *message.Printer
}

// New returns a translator for lang, falling back to DefaultLanguage when
// lang has no catalog.
func New(lang string) *Translator {
	if !Supported(lang) {
		lang = DefaultLanguage
	}
	return &Translator{
		lang:    lang,
		printer: message.NewPrinter(language.Make(lang)),
	}
}

// Language returns the active language code.
func (t *Translator) Language() string {
	return t.lang
}

// RTL reports whether the active language is written right to left.
func (t *Translator) RTL() bool {
	return t.lang == Persian
}

// T returns the message for key with {name} placeholders substituted from
// vars. Missing keys fall back to English, then to the key itself.
func (t *Translator) T(key string, vars map[string]string) string {
	msg, ok := catalogs[t.lang][key]
	if !ok {
		msg, ok = catalogs[DefaultLanguage][key]
	}
	if !ok {
		return key
	}
	if len(vars) == 0 {
		return msg
	}

	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

// FormatNumber renders v with grouping and a fixed number of decimals in
// the active language's digits.
func (t *Translator) FormatNumber(v float64, decimals int) string {
	return t.printer.Sprint(number.Decimal(v, number.MinFractionDigits(decimals), number.MaxFractionDigits(decimals)))
}

// FormatInt renders n with grouping in the active language's digits.
func (t *Translator) FormatInt(n int) string {
	return t.printer.Sprint(number.Decimal(n))
}
