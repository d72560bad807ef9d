// Command searchstub serves a canned DuckDuckGo-style result page and an
// OpenAI-compatible translation endpoint so the full pipeline can run
// air-gapped: point -search.url and -llm.base at it.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func main() {
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8082"
	}
	target := os.Getenv("TARGET_URL")
	if strings.TrimSpace(target) == "" {
		target = "http://localhost" + addr + "/page"
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/html/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, `<html><body>
<div class="result"><a class="result__a" href="%s">Stub Knowledge Page</a>
<div class="result__snippet">A canned result for offline runs.</div></div>
</body></html>`, target)
	})
	mux.HandleFunc("/page", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, "<html><head><title>Stub Knowledge Page</title></head><body>")
		for i := 0; i < 12; i++ {
			fmt.Fprintf(w, "<p>Paragraph %d states a verifiable fact about the stub topic in plain prose. </p>", i+1)
		}
		fmt.Fprint(w, "</body></html>")
	})
	mux.HandleFunc("/v1/chat/completions", func(w http.ResponseWriter, r *http.Request) {
		defer r.Body.Close()
		var req chatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		user := ""
		if n := len(req.Messages); n > 0 {
			user = req.Messages[n-1].Content
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{
				"message": map[string]any{"role": "assistant", "content": "[übersetzt] " + user},
			}},
		})
	})
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{{"id": "stub-translator", "object": "model"}},
		})
	})

	log.Printf("searchstub listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
