package app

import (
	"fmt"
	"strings"

	"github.com/knowseek/knowseek/internal/cache"
	"github.com/knowseek/knowseek/internal/search"
)

// CancelledReport is returned whenever cancellation is observed at a
// checkpoint; no further stages run after it.
const CancelledReport = "Suche durch den Benutzer abgebrochen."

const proxyHint = "\n\n*** WICHTIGER HINWEIS: ***\n" +
	"Wenn Fehler wiederholt auftreten, sind die konfigurierten Proxys wahrscheinlich überlastet oder blockiert. " +
	"Tragen Sie dann neue Adressen im Proxy-Pool der Konfiguration ein."

// successReport formats the primary-path finding: the most likely answer,
// its source, and the remaining discovered-but-unused hits.
func successReport(serviceName, answer string, hit search.Hit, others []search.Hit, translationFailed bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Erkenntnis (Quelle: Allgemeine Suche, Dienst: %s):\n\n", serviceName)
	if translationFailed {
		b.WriteString("[INFO: Übersetzung fehlgeschlagen. Originaltext wird verwendet.]\n")
	}
	b.WriteString("--- WAHRSCHEINLICHSTE ANTWORT:\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", strings.TrimSpace(answer))
	b.WriteString("--- QUELLE DER ERKENNTNIS:\n")
	title := hit.Title
	if title == "" {
		title = "Kein Titel"
	}
	fmt.Fprintf(&b, "Titel: %s\nURL: %s\n\n", title, hit.URL)
	if len(others) > 0 {
		b.WriteString("Weitere gefundene Quellen (ungeladen oder blockiert):\n")
		for _, h := range others {
			t := h.Title
			if t == "" {
				t = "Kein Titel"
			}
			fmt.Fprintf(&b, "- %s (%s)\n", t, h.URL)
		}
	}
	return b.String()
}

// comparativeReport formats the whitelist-fallback summary with its
// multi-source attribution block.
func comparativeReport(serviceName, summary, attribution string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Erkenntnis (Quelle: Allgemeine Suche, Dienst: %s):\n\n", serviceName)
	b.WriteString("--- VERGLEICHENDE ZUSAMMENFASSUNG (KI-Analyse):\n\n")
	fmt.Fprintf(&b, "**%s**\n\n", summary)
	b.WriteString(attribution)
	return b.String()
}

// failureReport formats the exhaustive failure case: the cumulative log plus
// similar-query hints from the cache.
func failureReport(cfg Config, errLog []string, matches []cache.Match) string {
	var b strings.Builder
	fmt.Fprintf(&b,
		"Keine Online-Dokumente extrahiert nach %d Suchversuchen UND dem Whitelist-Fallback (Quellenvergleich). \n\n",
		cfg.MaxRetries)
	fmt.Fprintf(&b,
		"(Alle Quellen wurden blockiert, lieferten keinen substanziellen Text oder wurden als irrelevant/zu kurz übersprungen. Mindestlänge: %d Zeichen.)\n\n",
		cfg.MinTextLength)
	fmt.Fprintf(&b, "Fehler-Details (kumuliert):\n%s\n", strings.Join(errLog, "\n"))
	b.WriteString(proxyHint)
	b.WriteString("\n\n")
	if len(matches) > 0 {
		fmt.Fprintf(&b, "--- ÄHNLICHE ARTIKEL IM CACHE (Ähnlichkeit > %d%%):\n", cfg.SimilarityCutoff)
		for _, m := range matches {
			fmt.Fprintf(&b, "- %s (Ähnlichkeit: %d%%)\n", m.Query, m.Score)
		}
	} else {
		fmt.Fprintf(&b, "--- KEINE ÄHNLICHEN ARTIKEL im Cache (Ähnlichkeit > %d%%).\n", cfg.SimilarityCutoff)
	}
	return b.String()
}
