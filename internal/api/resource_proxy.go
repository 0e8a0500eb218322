package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"mime"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"path"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/vrsandeep/nephra-go/internal/imaging"
)

// maxResizeBytes bounds the body read into memory when resizing.
const maxResizeBytes = 20 << 20

var errPrivateTarget = errors.New("target address is not allowed")

// newProxyClient builds the client of the resource proxy. Unless
// allowPrivate is set, connections to loopback, private, link-local and
// unspecified addresses are refused once the host has been resolved, which
// also covers redirects.
func newProxyClient(allowPrivate bool) *http.Client {
	dialer := &net.Dialer{Timeout: 10 * time.Second, KeepAlive: 30 * time.Second}
	if !allowPrivate {
		dialer.Control = func(network, address string, _ syscall.RawConn) error {
			return checkTarget(address)
		}
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.Proxy = nil
	transport.DialContext = dialer.DialContext
	return &http.Client{Timeout: 30 * time.Second, Transport: transport}
}

// checkTarget rejects a resolved "ip:port" address that points into the
// host or its private networks.
func checkTarget(address string) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return err
	}
	ip = ip.Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() || ip.IsUnspecified() || ip.IsMulticast() {
		return fmt.Errorf("%w: %s", errPrivateTarget, ip)
	}
	return nil
}

// ProxyURL returns the proxy path for a cover or page image. A positive
// width asks the proxy to downscale it.
func ProxyURL(resource string, width int) string {
	if resource == "" {
		return ""
	}
	q := url.Values{}
	q.Set("url", resource)
	if width > 0 {
		q.Set("w", strconv.Itoa(width))
	}
	return "/api/proxy/resource?" + q.Encode()
}

// handleProxyResource fetches a catalog resource (usually a CDN image) on
// behalf of the browser.
//
// Query parameters:
//   - url: (required) absolute http(s) URL of the resource
//   - w: (optional) target width; images are downscaled and served as JPEG
//   - referer, user-agent: (optional) request headers to forward
func (s *Server) handleProxyResource(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	resourceURL := query.Get("url")
	if resourceURL == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing 'url' parameter")
		return
	}
	parsedURL, err := url.Parse(resourceURL)
	if err != nil || parsedURL.Host == "" {
		RespondWithError(w, http.StatusBadRequest, "Invalid URL")
		return
	}
	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		RespondWithError(w, http.StatusBadRequest, "Only http and https URLs are allowed")
		return
	}

	var width uint64
	if raw := query.Get("w"); raw != "" {
		width, err = strconv.ParseUint(raw, 10, 32)
		if err != nil || width == 0 {
			RespondWithError(w, http.StatusBadRequest, "Invalid 'w' parameter")
			return
		}
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, resourceURL, nil)
	if err != nil {
		log.Printf("Error creating proxy request: %v", err)
		RespondWithError(w, http.StatusInternalServerError, "Failed to create request")
		return
	}
	forwardHeaders(req, query)

	resp, err := s.proxy.Do(req)
	if errors.Is(err, errPrivateTarget) {
		log.Printf("Refused proxy request to %s: %v", parsedURL.Host, err)
		RespondWithError(w, http.StatusForbidden, "Target address is not allowed")
		return
	}
	if err != nil {
		log.Printf("Error fetching proxied resource: %v", err)
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch resource")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Printf("Proxied resource returned status %d for URL: %s", resp.StatusCode, resourceURL)
		RespondWithError(w, http.StatusBadGateway, "Resource server returned error")
		return
	}

	contentType, _, _ := mime.ParseMediaType(resp.Header.Get("Content-Type"))
	if contentType == "" {
		contentType = inferContentType(parsedURL.Path)
	}

	if width > 0 && strings.HasPrefix(contentType, "image/") {
		serveResized(w, resp.Body, contentType, uint(width))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", cacheControlFor(contentType))
	if _, err := io.Copy(w, resp.Body); err != nil {
		log.Printf("Error copying proxied resource data: %v", err)
	}
}

// serveResized answers with the downscaled image, or with the original bytes
// when they cannot be decoded.
func serveResized(w http.ResponseWriter, body io.Reader, contentType string, width uint) {
	data, err := io.ReadAll(io.LimitReader(body, maxResizeBytes))
	if err != nil {
		log.Printf("Error reading proxied image: %v", err)
		RespondWithError(w, http.StatusBadGateway, "Failed to fetch resource")
		return
	}

	resized, err := imaging.ResizeToWidth(data, width)
	switch {
	case err == nil:
		contentType = "image/jpeg"
		data = resized
	case errors.Is(err, imaging.ErrUnsupported):
	default:
		log.Printf("Error resizing proxied image: %v", err)
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", cacheControlFor(contentType))
	w.Write(data)
}

// forwardHeaders copies the Referer and User-Agent some CDNs insist on.
// Nothing else from the query reaches the upstream request.
func forwardHeaders(req *http.Request, query url.Values) {
	if referer := query.Get("referer"); referer != "" {
		req.Header.Set("Referer", referer)
	}
	if userAgent := query.Get("user-agent"); userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}
}

func cacheControlFor(contentType string) string {
	if strings.HasPrefix(contentType, "image/") {
		return "public, max-age=86400"
	}
	return "public, max-age=3600"
}

var extensionTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
	".svg":  "image/svg+xml",
	".json": "application/json",
	".xml":  "application/xml",
	".html": "text/html",
	".htm":  "text/html",
	".css":  "text/css",
	".js":   "application/javascript",
}

// inferContentType guesses the content type from the URL path's extension.
func inferContentType(urlPath string) string {
	if ct, ok := extensionTypes[strings.ToLower(path.Ext(urlPath))]; ok {
		return ct
	}
	return "application/octet-stream"
}
