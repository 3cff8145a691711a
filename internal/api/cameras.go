package api

import (
	"context"

	"github.com/shinji-kodama/vertexctl/internal/model"
)

// placeholderFeedURL is a static still shown in place of a live feed.
const placeholderFeedURL = "https://placehold.co/1280x720/111827/94a3b8?text=Camera+1+Feed"

// PlaceholderCameras returns the list shown when the device cannot report
// its cameras: one inactive camera-1 entry.
func PlaceholderCameras() *model.CameraList {
	return &model.CameraList{
		Cameras: []model.Camera{
			{
				ID:      "camera-1",
				Name:    "Camera 1",
				Active:  false,
				FeedURL: placeholderFeedURL,
			},
		},
		Placeholder: true,
	}
}

// Cameras lists the device cameras. It never fails: if the request or the
// decoding fails for any reason, PlaceholderCameras is returned instead.
func (c *Client) Cameras(ctx context.Context) *model.CameraList {
	resp, err := c.Get(ctx, "/cameras", nil)
	if err == nil {
		var list model.CameraList
		if err = resp.Decode(&list); err == nil {
			return &list
		}
	}

	c.logger.Warn("camera list unavailable, using placeholder", "error", err)
	return PlaceholderCameras()
}
