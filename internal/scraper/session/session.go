package session

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"upscout/internal/config"
	"upscout/internal/logging"
	"upscout/internal/scraper/captcha"
	"upscout/pkg/utils"
)

// Login form selectors. The marketplace's login flow is a two-step
// form: identity first, then password on the same page.
const (
	usernameSelector         = "#login_username"
	usernameContinueSelector = "#login_password_continue"
	passwordSelector         = "#login_password"
	loginSubmitSelector      = "#login_control_continue"
)

// Credentials identify the marketplace account a session logs in as.
type Credentials struct {
	Email    string
	Password string
}

// Manager acquires authenticated browser sessions. A session owns a
// dedicated browser instance; the caller must Close it when done.
type Manager struct {
	config *config.Config
	logger logging.Logger
}

// NewManager creates a new session manager
func NewManager(cfg *config.Config) *Manager {
	return &Manager{
		config: cfg,
		logger: logging.GetGlobalLogger(),
	}
}

// Acquire launches a browser, logs in with the given credentials and
// waits out any CAPTCHA challenge. On success the returned session is
// authenticated and ready to navigate; on any failure the browser is
// torn down before returning.
func (m *Manager) Acquire(ctx context.Context, creds Credentials) (*Session, error) {
	if creds.Email == "" || creds.Password == "" {
		return nil, utils.NewAuthFailureError("marketplace credentials are not configured")
	}

	sess, err := m.launch(ctx)
	if err != nil {
		return nil, err
	}

	if err := m.login(ctx, sess, creds); err != nil {
		sess.Close()
		return nil, err
	}

	if err := m.waitOutCaptcha(ctx, sess); err != nil {
		sess.Close()
		return nil, err
	}

	m.logger.Info("Authenticated session established", map[string]interface{}{
		"email":    creds.Email,
		"headless": m.config.Scraper.HeadlessMode,
	})

	return sess, nil
}

// launch starts a dedicated browser with stealth patches applied and
// returns an unauthenticated session wrapping it.
func (m *Manager) launch(ctx context.Context) (*Session, error) {
	l := launcher.New().
		Headless(m.config.Scraper.HeadlessMode).
		NoSandbox(true).
		Set("disable-blink-features", "AutomationControlled").
		Set("disable-gpu").
		Set("disable-dev-shm-usage").
		Set("window-size", "1920,1080")

	url, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := stealth.Page(browser)
	if err != nil {
		browser.Close()
		l.Cleanup()
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             1920,
		Height:            1080,
		DeviceScaleFactor: 1,
	}); err != nil {
		m.logger.Warn("Failed to set viewport", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if m.config.Scraper.UserAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
			UserAgent: m.config.Scraper.UserAgent,
		}); err != nil {
			m.logger.Warn("Failed to set user agent", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}

	return &Session{
		browser:  browser,
		page:     page,
		launcher: l,
		logger:   m.logger,
	}, nil
}

// login drives the two-step login form. Each element wait is bounded
// by the selector timeout; a missing element fails the whole
// acquisition because nothing useful can be scraped unauthenticated.
func (m *Manager) login(ctx context.Context, sess *Session, creds Credentials) error {
	cfg := m.config.Scraper

	if err := sess.Navigate(ctx, cfg.LoginURL, cfg.NavigationTimeout); err != nil {
		return utils.NewTimeoutError(fmt.Sprintf("login page did not load: %v", err))
	}

	if err := rod.Try(func() {
		sess.page.Timeout(cfg.SelectorTimeout).MustElement(usernameSelector).MustWaitVisible().MustInput(creds.Email)
	}); err != nil {
		return utils.NewTimeoutError(fmt.Sprintf("identity input never appeared: %v", err))
	}

	if err := rod.Try(func() {
		sess.page.Timeout(cfg.SelectorTimeout).MustElement(usernameContinueSelector).MustWaitVisible().MustClick()
	}); err != nil {
		return utils.NewTimeoutError(fmt.Sprintf("identity continue control never appeared: %v", err))
	}

	if err := rod.Try(func() {
		sess.page.Timeout(cfg.SelectorTimeout).MustElement(passwordSelector).MustWaitVisible().MustInput(creds.Password)
	}); err != nil {
		return utils.NewTimeoutError(fmt.Sprintf("password input never appeared: %v", err))
	}

	if err := m.submitLogin(sess); err != nil {
		return err
	}

	// Confirmation is optimistic: some accounts land without a clean
	// navigation event, so a quiet timeout here is informational only.
	if err := rod.Try(func() {
		wait := sess.page.Timeout(cfg.LoginConfirmTimeout).MustWaitNavigation()
		wait()
	}); err != nil {
		m.logger.Info("Post-login navigation not confirmed, proceeding", map[string]interface{}{
			"error": err.Error(),
		})
	}

	return nil
}

// submitLogin clicks the final login control, falling back to a
// scroll-into-view scripted click when the direct click is intercepted
// by overlapping chrome.
func (m *Manager) submitLogin(sess *Session) error {
	cfg := m.config.Scraper

	err := rod.Try(func() {
		sess.page.Timeout(cfg.SelectorTimeout).MustElement(loginSubmitSelector).MustClick()
	})
	if err == nil {
		return nil
	}

	m.logger.Debug("Direct login click failed, falling back to scripted click", map[string]interface{}{
		"error": err.Error(),
	})

	err = rod.Try(func() {
		sess.page.Timeout(cfg.SelectorTimeout).MustEval(fmt.Sprintf(`() => {
			const el = document.querySelector(%q);
			el.scrollIntoView({block: 'center'});
			el.click();
		}`, loginSubmitSelector))
	})
	if err != nil {
		return utils.NewAuthFailureError(fmt.Sprintf("login control could not be activated: %v", err))
	}

	return nil
}

// waitOutCaptcha polls for the challenge element and blocks until a
// human resolves it or the wait budget runs out. No automated solving
// is attempted.
func (m *Manager) waitOutCaptcha(ctx context.Context, sess *Session) error {
	cfg := m.config.Scraper

	if !m.challengePresent(sess) {
		return nil
	}

	m.logger.Info("CAPTCHA detected, waiting for manual resolution", map[string]interface{}{
		"poll_interval": cfg.CaptchaPollInterval.String(),
		"wait_timeout":  cfg.CaptchaWaitTimeout.String(),
	})

	deadline := time.Now().Add(cfg.CaptchaWaitTimeout)
	ticker := time.NewTicker(cfg.CaptchaPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return utils.NewCaptchaUnresolvedError("cancelled while waiting for CAPTCHA resolution")
		case <-ticker.C:
			if !m.challengePresent(sess) {
				m.logger.Info("CAPTCHA resolved, continuing", map[string]interface{}{})
				return nil
			}
			if time.Now().After(deadline) {
				return utils.NewCaptchaUnresolvedError(fmt.Sprintf(
					"challenge still present after %s", cfg.CaptchaWaitTimeout))
			}
		}
	}
}

// challengePresent probes for the challenge element, falling back to a
// content scan of the rendered HTML when the element probe errors. An
// unreadable page counts as no challenge; the poll loop retries anyway.
func (m *Manager) challengePresent(sess *Session) bool {
	present, err := sess.Has(captcha.ChallengeSelector)
	if err == nil {
		return present
	}

	m.logger.Warn("CAPTCHA element probe failed, scanning page content", map[string]interface{}{
		"error": err.Error(),
	})

	html, err := sess.HTML()
	if err != nil {
		m.logger.Warn("Page content unreadable during CAPTCHA check", map[string]interface{}{
			"error": err.Error(),
		})
		return false
	}

	return captcha.Detected(html)
}

// Session is an authenticated browser session. It is not safe for
// concurrent use; one scrape run owns it end to end.
type Session struct {
	browser  *rod.Browser
	page     *rod.Page
	launcher *launcher.Launcher
	logger   logging.Logger
}

// Navigate loads the given URL and waits for the load event, bounded
// by the timeout.
func (s *Session) Navigate(ctx context.Context, url string, timeout time.Duration) error {
	navCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := rod.Try(func() {
		s.page.Context(navCtx).MustNavigate(url).MustWaitLoad()
	})
	if err != nil {
		return utils.NewNavigationError(fmt.Sprintf("failed to navigate to %s: %v", url, err))
	}

	return nil
}

// HTML returns the current rendered page content.
func (s *Session) HTML() (string, error) {
	var html string
	err := rod.Try(func() {
		html = s.page.MustHTML()
	})
	if err != nil {
		return "", fmt.Errorf("failed to read page content: %w", err)
	}
	return html, nil
}

// Has reports whether the current page contains an element matching
// the selector.
func (s *Session) Has(selector string) (bool, error) {
	present, _, err := s.page.Has(selector)
	if err != nil {
		return false, fmt.Errorf("failed to probe selector %s: %w", selector, err)
	}
	return present, nil
}

// Close tears down the page, browser and launcher. Safe to call after
// a partial acquisition failure.
func (s *Session) Close() {
	if s.page != nil {
		if err := rod.Try(func() { s.page.MustClose() }); err != nil {
			s.logger.Debug("Failed to close page", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if s.browser != nil {
		if err := s.browser.Close(); err != nil {
			s.logger.Debug("Failed to close browser", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
	if s.launcher != nil {
		s.launcher.Cleanup()
	}
}
