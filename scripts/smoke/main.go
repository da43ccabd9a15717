// Command smoke exercises a running API instance end to end using the
// seeded accounts, and exits non-zero when any critical check fails.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"
)

type check struct {
	Name     string
	Method   string
	Path     string
	Body     string
	Token    string
	Expect   int
	Critical bool
}

type result struct {
	Check    check
	Status   int
	Pass     bool
	Duration time.Duration
	Error    error
}

func main() {
	var (
		base    string
		prefix  string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&prefix, "prefix", "/api/v1", "API route prefix")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	studentToken, err := login(client, base+prefix, "2301010001", "123456")
	if err != nil {
		log.Fatalf("student login failed: %v", err)
	}
	adminToken, err := login(client, base+prefix, "admin", "admin123")
	if err != nil {
		log.Fatalf("admin login failed: %v", err)
	}

	checks := []check{
		{Name: "health", Method: http.MethodGet, Path: "/health", Expect: http.StatusOK, Critical: true},
		{Name: "ready", Method: http.MethodGet, Path: "/ready", Expect: http.StatusOK, Critical: true},
		{Name: "metrics", Method: http.MethodGet, Path: "/metrics", Expect: http.StatusOK},
		{Name: "profile", Method: http.MethodGet, Path: prefix + "/auth/profile", Token: studentToken, Expect: http.StatusOK, Critical: true},
		{Name: "lecturers", Method: http.MethodGet, Path: prefix + "/lecturers", Token: studentToken, Expect: http.StatusOK, Critical: true},
		{Name: "facilities", Method: http.MethodGet, Path: prefix + "/facilities", Token: studentToken, Expect: http.StatusOK, Critical: true},
		{Name: "facility categories", Method: http.MethodGet, Path: prefix + "/facility-categories", Token: studentToken, Expect: http.StatusOK},
		{Name: "courses", Method: http.MethodGet, Path: prefix + "/courses", Token: studentToken, Expect: http.StatusOK},
		{Name: "active period", Method: http.MethodGet, Path: prefix + "/active-period", Token: studentToken, Expect: http.StatusOK, Critical: true},
		{Name: "lecturer questions", Method: http.MethodGet, Path: prefix + "/evaluate/lecturer/questions", Token: studentToken, Expect: http.StatusOK, Critical: true},
		{Name: "history", Method: http.MethodGet, Path: prefix + "/evaluations/history", Token: studentToken, Expect: http.StatusOK},
		{Name: "lecturers without token", Method: http.MethodGet, Path: prefix + "/lecturers", Expect: http.StatusUnauthorized, Critical: true},
		{Name: "dashboard as student", Method: http.MethodGet, Path: prefix + "/stats/dashboard", Token: studentToken, Expect: http.StatusForbidden, Critical: true},
		{Name: "dashboard as admin", Method: http.MethodGet, Path: prefix + "/stats/dashboard", Token: adminToken, Expect: http.StatusOK, Critical: true},
		{Name: "lecturer stats", Method: http.MethodGet, Path: prefix + "/stats/lecturers", Token: adminToken, Expect: http.StatusOK},
		{Name: "monthly trend", Method: http.MethodGet, Path: prefix + "/stats/monthly-trend", Token: adminToken, Expect: http.StatusOK},
	}

	var results []result
	failed := 0
	for _, c := range checks {
		res := run(client, base, c)
		if !res.Pass && c.Critical {
			failed++
		}
		results = append(results, res)
	}

	printReport(results)
	if failed > 0 {
		fmt.Printf("critical failures: %d\n", failed)
		os.Exit(1)
	}
	fmt.Println("all critical checks passed")
}

func login(client *http.Client, apiBase, nim, password string) (string, error) {
	payload, _ := json.Marshal(map[string]string{"nim": nim, "password": password})
	resp, err := client.Post(apiBase+"/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var envelope struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return "", err
	}
	if envelope.Data.Token == "" {
		return "", fmt.Errorf("login response carried no token")
	}
	return envelope.Data.Token, nil
}

func run(client *http.Client, base string, c check) result {
	res := result{Check: c}

	var body io.Reader
	if c.Body != "" {
		body = strings.NewReader(c.Body)
	}
	req, err := http.NewRequest(c.Method, strings.TrimRight(base, "/")+c.Path, body)
	if err != nil {
		res.Error = err
		return res
	}
	if c.Body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	res.Duration = time.Since(start)
	if err != nil {
		res.Error = err
		return res
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	res.Status = resp.StatusCode
	res.Pass = resp.StatusCode == c.Expect
	return res
}

func printReport(results []result) {
	for _, r := range results {
		mark := "ok"
		if !r.Pass {
			mark = "FAIL"
		}
		if r.Error != nil {
			fmt.Printf("%-4s %-28s %s %s error: %v\n", mark, r.Check.Name, r.Check.Method, r.Check.Path, r.Error)
			continue
		}
		fmt.Printf("%-4s %-28s %s %s got %d want %d in %s\n",
			mark, r.Check.Name, r.Check.Method, r.Check.Path, r.Status, r.Check.Expect, r.Duration.Round(time.Millisecond))
	}
}
