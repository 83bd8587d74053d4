package pdfsvc

import (
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
)

const (
	renderAttempts = 2
	renderTimeout  = 30 * time.Second
)

// Renderer turns an HTML document into a PDF using a headless Chrome
// process. Each attempt runs in its own browser with a throwaway user data
// directory; the browser and the directory are released whether the render
// succeeds or fails.
type Renderer struct {
	logger core.Logger
}

func NewRenderer(logger core.Logger) *Renderer {
	return &Renderer{logger: logger}
}

func (r *Renderer) Render(ctx context.Context, html string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= renderAttempts; attempt++ {
		attemptCtx, cancel := context.WithTimeout(ctx, renderTimeout)
		pdf, err := r.renderOnce(attemptCtx, html)
		cancel()
		if err == nil {
			return pdf, nil
		}
		lastErr = err
		r.logger.Warn(fmt.Sprintf("pdf render attempt %d/%d failed", attempt, renderAttempts), err)
	}
	return nil, errors.Wrap(lastErr, "rendering pdf")
}

func (r *Renderer) renderOnce(ctx context.Context, html string) ([]byte, error) {
	userDataDir, err := ioutil.TempDir("", "shule-chrome-")
	if err != nil {
		return nil, errors.Wrap(err, "creating user data dir")
	}
	defer os.RemoveAll(userDataDir)

	opts := append(
		chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(userDataDir),
		chromedp.NoSandbox,
	)
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	var pdf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}
	return pdf, nil
}
