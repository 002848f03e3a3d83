package http

import (
	"io"
	"path"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/dronesurvey/internal/core/domain"
)

// ListResourcesHandler lists resources, optionally filtered by recon_id.
func ListResourcesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reconID, ok := queryID(c, "recon_id")
		if !ok {
			return errBadRequest(c, "invalid recon_id")
		}
		resources, err := deps.Resources.List(c.UserContext(), reconID)
		if err != nil {
			return writeError(c, err)
		}
		return paginate(c, resources, 100, 500)
	}
}

func GetResourceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid resource id")
		}
		res, err := deps.Resources.Get(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

// CreateResourceHandler registers a capture of a recon. Content is uploaded
// separately through /content.
func CreateResourceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var res domain.Resource
		if err := c.BodyParser(&res); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if res.ReconID <= 0 {
			return errBadRequest(c, "recon_id is required")
		}
		res.ID = 0
		if err := deps.Resources.Create(c.UserContext(), &res); err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

func UpdateResourceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid resource id")
		}
		var res domain.Resource
		if err := c.BodyParser(&res); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		res.ID = id
		if err := deps.Resources.Update(c.UserContext(), &res); err != nil {
			return writeError(c, err)
		}
		return c.JSON(res)
	}
}

func DeleteResourceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid resource id")
		}
		if err := deps.Resources.Delete(c.UserContext(), id); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UploadResourceContentHandler stores the multipart "file" as the resource image.
func UploadResourceContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid resource id")
		}
		fh, err := c.FormFile("file")
		if err != nil {
			return errBadRequest(c, "multipart field \"file\" is required")
		}
		f, err := fh.Open()
		if err != nil {
			return errBadRequest(c, "unreadable upload")
		}
		defer f.Close()

		res, err := deps.Resources.UploadContent(c.UserContext(), id, path.Ext(fh.Filename), f)
		if err != nil {
			return writeError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// GetResourceContentHandler streams the resource image.
func GetResourceContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid resource id")
		}
		rc, name, err := deps.Resources.OpenContent(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, rc, name)
	}
}

// GetResourceThumbnailHandler streams the resource thumbnail. 404 until the
// thumbnailer has processed the upload.
func GetResourceThumbnailHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid resource id")
		}
		rc, name, err := deps.Resources.OpenThumbnail(c.UserContext(), id)
		if err != nil {
			return writeError(c, err)
		}
		return sendFile(c, rc, name)
	}
}

func DeleteResourceContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := paramID(c, "id")
		if !ok {
			return errBadRequest(c, "invalid resource id")
		}
		if err := deps.Resources.DeleteContent(c.UserContext(), id); err != nil {
			return writeError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// sendFile writes rc as an inline attachment typed by name's extension.
func sendFile(c *fiber.Ctx, rc io.ReadCloser, name string) error {
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		return writeError(c, err)
	}
	c.Type(path.Ext(name))
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+name+`"`)
	return c.Send(data)
}
