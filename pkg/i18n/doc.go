// Package i18n renders user-facing messages and provider errors in the
// user's language.
//
// Messages live in TOML files embedded from locales/ (active.en.toml,
// active.ja.toml). Provider errors carry a message ID and template data, so
//
//	tr, _ := i18n.NewTranslations("ja")
//	fmt.Println(tr.Error(err))
//
// prints the Japanese text for any *providers.Error and err.Error() for
// everything else. HTTP handlers call tr.For(r.Header.Get("Accept-Language"))
// to get a per-request copy.
package i18n
