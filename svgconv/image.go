package svgconv

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif" // register the decoders used by image.DecodeConfig
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"go.uber.org/zap"

	"github.com/benoitkugler/svgtree/svgdoc"
	"github.com/benoitkugler/svgtree/svgpath"
	"github.com/benoitkugler/svgtree/svgtree"
)

var (
	errInvalidDataURL   = errors.New("svgconv: invalid data URL")
	errUnsupportedImage = errors.New("svgconv: unsupported image format")
	errNoResourcesDir   = errors.New("svgconv: external images require a resources directory")
)

func (c *converter) convertImage(node *svgdoc.Node, st state, parent *svgtree.Node) {
	href, _ := node.Attribute("href")
	kind, size, err := c.loadImage(href)
	if err != nil {
		c.logger.Warn("image not loaded", zap.String("id", node.ID()), zap.Error(err))
		return
	}
	ts, ok := c.transformAttr(node, "transform")
	if !ok {
		return
	}

	user := svgtree.UserSpaceOnUse
	x := c.lengthAttr(node, "x", user, st, 0)
	y := c.lengthAttr(node, "y", user, st, 0)
	// a missing dimension is taken from the image, keeping its aspect ratio
	hasW, hasH := node.HasAttribute("width"), node.HasAttribute("height")
	w := c.lengthAttr(node, "width", user, st, size.W)
	h := c.lengthAttr(node, "height", user, st, size.H)
	switch {
	case hasW && !hasH && size.W > 0:
		h = size.H * w / size.W
	case !hasW && hasH && size.H > 0:
		w = size.W * h / size.H
	}
	rect, ok := svgpath.NewRect(x, y, w, h)
	if !ok {
		c.logger.Debug("image with an invalid size", zap.String("id", node.ID()))
		return
	}

	g, ok := c.convertGroup(node, st, false, ts, parent)
	if !ok {
		return
	}
	id := node.ID()
	if g != parent {
		id, ts = "", svgpath.Identity
	}
	g.AppendKind(&svgtree.Image{
		ID:             id,
		Transform:      ts,
		Visibility:     visibility(node),
		ViewBox:        svgpath.ViewBox{Rect: rect, Aspect: c.aspectAttr(node)},
		ImageRendering: imageRendering(node),
		Kind:           kind,
	})
}

// loadImage returns the image content and its intrinsic size.
func (c *converter) loadImage(href string) (svgtree.ImageKind, svgtree.Size, error) {
	var (
		mediaType string
		data      []byte
		err       error
	)
	if strings.HasPrefix(href, "data:") {
		mediaType, data, err = decodeDataURL(href)
	} else {
		data, err = c.readResource(href)
	}
	if err != nil {
		return nil, svgtree.Size{}, err
	}

	if mediaType == "image/svg+xml" || looksLikeSVG(data) {
		return c.loadSVGImage(data)
	}

	kind, err := filetype.Match(data)
	if err != nil {
		return nil, svgtree.Size{}, err
	}
	var out svgtree.ImageKind
	switch kind.MIME.Value {
	case "image/jpeg":
		out = svgtree.ImageJPEG(data)
	case "image/png":
		out = svgtree.ImagePNG(data)
	case "image/gif":
		out = svgtree.ImageGIF(data)
	default:
		return nil, svgtree.Size{}, fmt.Errorf("%w: %s", errUnsupportedImage, kind.MIME.Value)
	}
	config, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, svgtree.Size{}, err
	}
	return out, svgtree.Size{W: float64(config.Width), H: float64(config.Height)}, nil
}

func (c *converter) readResource(href string) ([]byte, error) {
	if href == "" {
		return nil, errors.New("svgconv: missing image reference")
	}
	if u, err := url.Parse(href); err == nil && u.Scheme == "file" {
		href = u.Path
	}
	if !filepath.IsAbs(href) {
		if c.opts.ResourcesDir == "" {
			return nil, errNoResourcesDir
		}
		href = filepath.Join(c.opts.ResourcesDir, href)
	}
	return os.ReadFile(href)
}

func looksLikeSVG(data []byte) bool {
	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	return bytes.Contains(head, []byte("<svg"))
}

// loadSVGImage converts a nested document, with the same options.
func (c *converter) loadSVGImage(data []byte) (svgtree.ImageKind, svgtree.Size, error) {
	if c.imageNesting >= maxImageNesting {
		return nil, svgtree.Size{}, errors.New("svgconv: too many nested SVG images")
	}
	doc, err := svgdoc.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, svgtree.Size{}, err
	}
	tree, err := convert(doc, c.opts, c.imageNesting+1)
	if err != nil {
		return nil, svgtree.Size{}, err
	}
	return svgtree.ImageSVG{Tree: tree}, tree.Size, nil
}

// decodeDataURL supports base64 and percent-encoded data.
func decodeDataURL(href string) (mediaType string, data []byte, err error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(href, "data:"), ",")
	if !ok {
		return "", nil, errInvalidDataURL
	}
	params := strings.Split(header, ";")
	mediaType = strings.TrimSpace(strings.ToLower(params[0]))
	isBase64 := params[len(params)-1] == "base64"

	if isBase64 {
		// line breaks are common in embedded images
		payload = strings.Map(func(r rune) rune {
			switch r {
			case ' ', '\t', '\n', '\r':
				return -1
			}
			return r
		}, payload)
		data, err = base64.StdEncoding.DecodeString(payload)
		if err != nil {
			data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		}
		if err != nil {
			return "", nil, fmt.Errorf("%w: %s", errInvalidDataURL, err)
		}
		return mediaType, data, nil
	}
	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", errInvalidDataURL, err)
	}
	return mediaType, []byte(decoded), nil
}
