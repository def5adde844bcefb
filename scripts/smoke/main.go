// Command smoke exercises a running API instance against a list of
// endpoint targets and reports status mismatches. It authenticates with
// the seeded admin account first so protected routes are reachable.
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
	"path/filepath"
	"time"
)

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Expect   int    `json:"expect"`
	Critical bool   `json:"critical"`
}

type targetsFile struct {
	Targets []target `json:"targets"`
}

type result struct {
	Target   target
	Status   int
	Match    bool
	Err      error
	Duration time.Duration
}

func main() {
	var (
		baseURL     string
		email       string
		password    string
		targetsPath string
		timeout     time.Duration
	)

	flag.StringVar(&baseURL, "base", "http://localhost:8080", "API base URL")
	flag.StringVar(&email, "email", "admin@college.edu", "login email")
	flag.StringVar(&password, "password", "password123", "login password")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "smoke", "targets.json"), "path to JSON targets file")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}

	token, err := login(client, baseURL, email, password)
	if err != nil {
		log.Fatalf("login failed: %v", err)
	}

	var breaking, minor int
	for _, t := range targets {
		res := check(client, baseURL, token, t)
		printResult(res)
		if !res.Match || res.Err != nil {
			if t.Critical {
				breaking++
			} else {
				minor++
			}
		}
	}

	fmt.Printf("\n%d target(s), %d breaking, %d minor\n", len(targets), breaking, minor)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var f targetsFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	if len(f.Targets) == 0 {
		return nil, fmt.Errorf("no targets in %s", path)
	}
	return f.Targets, nil
}

func login(client *http.Client, baseURL, email, password string) (string, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return "", err
	}
	resp, err := client.Post(baseURL+"/api/v1/auth/login", "application/json", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected login status %d", resp.StatusCode)
	}

	var envelope struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", err
	}
	if envelope.Data.AccessToken == "" {
		return "", fmt.Errorf("login response carried no access token")
	}
	return envelope.Data.AccessToken, nil
}

func check(client *http.Client, baseURL, token string, t target) result {
	req, err := http.NewRequest(t.Method, baseURL+t.Path, nil)
	if err != nil {
		return result{Target: t, Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+token)

	start := time.Now()
	resp, err := client.Do(req)
	elapsed := time.Since(start)
	if err != nil {
		return result{Target: t, Err: err, Duration: elapsed}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	expect := t.Expect
	if expect == 0 {
		expect = http.StatusOK
	}
	return result{
		Target:   t,
		Status:   resp.StatusCode,
		Match:    resp.StatusCode == expect,
		Duration: elapsed,
	}
}

func printResult(res result) {
	label := "ok"
	if res.Err != nil {
		label = "error"
	} else if !res.Match {
		label = "mismatch"
	}
	if res.Err != nil {
		fmt.Printf("%-8s %-6s %-40s %v\n", label, res.Target.Method, res.Target.Path, res.Err)
		return
	}
	fmt.Printf("%-8s %-6s %-40s %d (%s)\n", label, res.Target.Method, res.Target.Path, res.Status, res.Duration.Round(time.Millisecond))
}
