package main

import (
	"fmt"
	"io"
	"net/url"

	"github.com/go-resty/resty/v2"
)

func runLockReasons(apiURL, videoID string, categories []string, out io.Writer) error {
	q := url.Values{"videoID": {videoID}}
	for _, c := range categories {
		q.Add("category", c)
	}
	return fetch(apiURL+"/api/lockReason?"+q.Encode(), out)
}

func runUserInfo(apiURL, userID, publicID string, values []string, out io.Writer) error {
	q := url.Values{}
	if userID != "" {
		q.Set("userID", userID)
	}
	if publicID != "" {
		q.Set("publicUserID", publicID)
	}
	for _, v := range values {
		q.Add("value", v)
	}
	return fetch(apiURL+"/api/userInfo?"+q.Encode(), out)
}

func fetch(fullURL string, out io.Writer) error {
	resp, err := resty.New().R().Get(fullURL)
	if err != nil {
		return err
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
	}
	_, err = fmt.Fprintln(out, resp.String())
	return err
}
