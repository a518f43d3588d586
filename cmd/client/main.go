package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"time"

	"gitlab.com/dirk.krummacker/contacts-backend/internal/auth"
	"gitlab.com/dirk.krummacker/contacts-backend/internal/randomgen"
	"gitlab.com/dirk.krummacker/contacts-backend/pkg/model"
)

// Usage examples on the command line:
// > TOKEN=eyJhbGciOi... go run main.go
// > JWT_SECRET=s3cr3t USER_ID=1 go run main.go -url=http://localhost:8080
func main() {
	baseURL := flag.String("url", "http://localhost:8080", "the base URL of the contacts service")
	flag.Parse()

	token, err := bearerToken()
	if err != nil {
		fmt.Println("could not get a token", err)
		os.Exit(1)
	}
	c := &client{baseURL: *baseURL, token: token, run: strconv.FormatInt(time.Now().Unix(), 36)}

	fmt.Println()
	fmt.Println("  Elements      POST     PATCH       GET    DELETE ")
	fmt.Println("---------------------------------------------------")
	sizes := []int{1000, 5000, 10000, 50000, 100000}
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)

		// POST requests
		ids := make([]int64, 0, loops)
		var duration int64
		for i := 0; i < loops; i++ {
			id, d := c.create()
			ids = append(ids, id)
			duration += d
		}
		fmt.Printf("%10d", duration/int64(loops*1000))

		// PATCH requests
		callInLoop(ids, func(id int64) int64 {
			phone := randomgen.PickPhoneNumber()
			body, _ := json.Marshal(model.ContactUpdate{PhoneNumber: &phone})
			_, d := c.send(http.MethodPatch, fmt.Sprintf("/contacts/%d", id), bytes.NewReader(body))
			return d
		})
		// GET requests
		callInLoop(ids, func(id int64) int64 {
			_, d := c.send(http.MethodGet, fmt.Sprintf("/contacts/%d", id), nil)
			return d
		})
		// DELETE requests
		callInLoop(ids, func(id int64) int64 {
			_, d := c.send(http.MethodDelete, fmt.Sprintf("/contacts/%d", id), nil)
			return d
		})
		fmt.Println()
	}
}

// bearerToken returns the TOKEN environment variable, or mints a token for USER_ID with
// JWT_SECRET.
func bearerToken() (string, error) {
	if token := os.Getenv("TOKEN"); token != "" {
		return token, nil
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return "", fmt.Errorf("either TOKEN or JWT_SECRET must be set")
	}
	userID, err := strconv.ParseInt(os.Getenv("USER_ID"), 10, 64)
	if err != nil {
		return "", fmt.Errorf("could not parse USER_ID env variable: %w", err)
	}
	return auth.NewResolver(secret).Sign(userID, time.Hour)
}

// callInLoop calls f for every id in random order and prints the average duration in
// microseconds.
func callInLoop(ids []int64, f func(id int64) int64) {
	shuffled := append([]int64(nil), ids...)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	var duration int64
	for _, id := range shuffled {
		duration += f(id)
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

type client struct {
	baseURL string
	token   string
	run     string
	created int
}

// create posts a new random contact and returns its id and the duration of the request.
func (c *client) create() (int64, int64) {
	c.created++
	in := randomgen.Contact(fmt.Sprintf("%s%d", c.run, c.created))
	birthday := in.Birthday.String()
	body, err := json.Marshal(model.NewContact{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		PhoneNumber: in.PhoneNumber,
		Birthday:    &birthday,
	})
	if err != nil {
		panic(err)
	}
	resBody, duration := c.send(http.MethodPost, "/contacts/", bytes.NewReader(body))
	var contact model.Contact
	err = json.Unmarshal(resBody, &contact)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return contact.ID, duration
}

// send executes a request and returns the response body and the duration in nanoseconds.
// Requests that are not answered with a 2xx status end the program.
func (c *client) send(method string, path string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	if res.StatusCode/100 != 2 {
		var e model.Error
		_ = json.Unmarshal(resBody, &e)
		fmt.Printf("\n%s %s: %s %s\n", method, path, res.Status, e.Detail)
		os.Exit(1)
	}
	return resBody, after - before
}
