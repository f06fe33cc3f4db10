// seed_backlog.go — standalone script to parse a markdown backlog outline and
// seed a project's hierarchy via the Compass API.
//
// The outline maps headings to hierarchy levels:
//
//	## Heading        -> epic
//	### Heading       -> feature (under the preceding epic)
//	- [ ] / - [x]     -> story (under the preceding feature)
//
// Usage:
//
//	go run scripts/seed_backlog.go -outline BACKLOG.md -api http://localhost:8700 -project <uuid> -token <bearer>
package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
)

type createItemRequest struct {
	Type        string   `json:"type"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	ParentID    string   `json:"parent_id,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

type createdItem struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type outlineEntry struct {
	req  createItemRequest
	done bool
}

func main() {
	outlinePath := flag.String("outline", "BACKLOG.md", "path to markdown outline")
	apiURL := flag.String("api", "http://localhost:8700", "Compass API base URL")
	projectID := flag.String("project", "", "project UUID to seed")
	token := flag.String("token", "", "bearer token (omit if auth is disabled)")
	dryRun := flag.Bool("dry-run", false, "print items without posting")
	flag.Parse()

	if *projectID == "" {
		log.Fatal("-project is required")
	}

	f, err := os.Open(*outlinePath)
	if err != nil {
		log.Fatalf("open outline: %v", err)
	}
	defer f.Close()

	entries, err := parseOutline(f)
	if err != nil {
		log.Fatalf("parse outline: %v", err)
	}
	log.Printf("parsed %d items from %s", len(entries), *outlinePath)

	if *dryRun {
		for i, e := range entries {
			indent := map[string]string{"epic": "", "feature": "  ", "story": "    "}[e.req.Type]
			fmt.Printf("[%d] %s%s: %s\n", i+1, indent, e.req.Type, e.req.Title)
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0

	// Headings become parents for everything under them, so items post in
	// document order and carry the last created ID per level.
	var lastEpicID, lastFeatureID string

	for _, e := range entries {
		switch e.req.Type {
		case "feature":
			e.req.ParentID = lastEpicID
		case "story":
			e.req.ParentID = lastFeatureID
		}

		item, err := postItem(client, *apiURL, *projectID, *token, e.req)
		if err != nil {
			log.Printf("skip %q: %v", e.req.Title, err)
			skipped++
			continue
		}
		created++

		switch e.req.Type {
		case "epic":
			lastEpicID = item.ID
			lastFeatureID = ""
		case "feature":
			lastFeatureID = item.ID
		case "story":
			if e.done {
				if err := patchStatus(client, *apiURL, *token, item.ID, "done"); err != nil {
					log.Printf("mark done %q: %v", e.req.Title, err)
				}
			}
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}

func parseOutline(f *os.File) ([]outlineEntry, error) {
	var entries []outlineEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "### "):
			entries = append(entries, outlineEntry{req: createItemRequest{
				Type:  "feature",
				Title: strings.TrimSpace(strings.TrimPrefix(line, "### ")),
				Tags:  []string{"seeded"},
			}})
		case strings.HasPrefix(line, "## "):
			entries = append(entries, outlineEntry{req: createItemRequest{
				Type:  "epic",
				Title: strings.TrimSpace(strings.TrimPrefix(line, "## ")),
				Tags:  []string{"seeded"},
			}})
		case strings.HasPrefix(trimmed, "- ["):
			done := strings.HasPrefix(trimmed, "- [x]") || strings.HasPrefix(trimmed, "- [X]")
			text := trimmed
			text = strings.TrimPrefix(text, "- [x] ")
			text = strings.TrimPrefix(text, "- [X] ")
			text = strings.TrimPrefix(text, "- [ ] ")
			if text == "" {
				continue
			}
			entries = append(entries, outlineEntry{
				req:  createItemRequest{Type: "story", Title: text, Tags: []string{"seeded"}},
				done: done,
			})
		}
	}
	return entries, scanner.Err()
}

func postItem(client *http.Client, apiURL, projectID, token string, req createItemRequest) (*createdItem, error) {
	body, _ := json.Marshal(req)
	httpReq, err := http.NewRequest(http.MethodPost, apiURL+"/psa/backlog/"+projectID, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var env apiEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusConflict {
		return nil, fmt.Errorf("duplicate: %s", env.Message)
	}
	if resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("status %d: %s", resp.StatusCode, env.Message)
	}

	var item createdItem
	if err := json.Unmarshal(env.Data, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

func patchStatus(client *http.Client, apiURL, token, itemID, status string) error {
	body, _ := json.Marshal(map[string]string{"status": status})
	req, err := http.NewRequest(http.MethodPatch, apiURL+"/psa/backlog/item/"+itemID+"/status", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}
