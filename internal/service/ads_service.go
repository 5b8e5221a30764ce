// internal/service/ads_service.go
package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/theruads/fleet-backend/internal/errors"
	"github.com/theruads/fleet-backend/internal/model"
	"github.com/theruads/fleet-backend/internal/repository"
	"github.com/theruads/fleet-backend/internal/storage"
)

type AdsService struct {
	CampaignRepo repository.CampaignRepositoryInterface
	AdRepo       repository.AdRepositoryInterface
	Store        storage.ObjectStore
}

// AdGrant is one eligible creative with a resolved access URL and the
// owning campaign's validity window for client-side caching.
type AdGrant struct {
	AdID      string  `json:"ad_id"`
	FileURL   string  `json:"file_url"`
	Duration  int     `json:"duration"`
	Checksum  *string `json:"checksum,omitempty"`
	ValidFrom string  `json:"valid_from"`
	ValidTo   string  `json:"valid_to"`
}

// ResolveEligibleAds returns every creative belonging to a campaign whose
// date window contains today. The campaign status field and the targeting
// fields (cities, device lists) are not consulted; any in-window creative
// goes to every device, matching the admin console's behavior.
func (s *AdsService) ResolveEligibleAds(ctx context.Context, deviceCode string, now time.Time) ([]AdGrant, error) {
	today := model.DateOnly(now)

	campaigns, err := s.CampaignRepo.ListAll()
	if err != nil {
		return nil, err
	}

	grants := []AdGrant{}
	for _, c := range campaigns {
		if !c.InWindow(today) {
			continue
		}

		ads, err := s.AdRepo.ListByCampaign(c.ID)
		if err != nil {
			return nil, err
		}

		for _, ad := range ads {
			grants = append(grants, AdGrant{
				AdID:      ad.ID,
				FileURL:   s.IssueAccess(ctx, ad.FileURL),
				Duration:  ad.Duration,
				Checksum:  ad.Checksum,
				ValidFrom: model.DateOnly(c.StartDate).Format("2006-01-02"),
				ValidTo:   model.DateOnly(c.EndDate).Format("2006-01-02"),
			})
		}
	}

	log.Printf("📺 Returning %d ads to device %s\n", len(grants), deviceCode)
	return grants, nil
}

// IssueAccess turns a stored reference into a retrievable URL. Absolute
// URLs pass through untouched. Keys get a time-limited signed URL; if
// signing fails the public URL is served instead, trading confidentiality
// for availability.
func (s *AdsService) IssueAccess(ctx context.Context, ref string) string {
	if strings.HasPrefix(ref, "http") {
		return ref
	}
	u, err := s.Store.SignedURL(ctx, ref)
	if err != nil {
		log.Println("⚠️ signed URL generation failed, serving public URL:", err)
		return s.Store.PublicURL(ref)
	}
	return u
}

// UploadAd validates and stores a creative: object store write first, then
// the database record. Returns the ad and a signed URL for the console.
func (s *AdsService) UploadAd(ctx context.Context, campaignID, fileName, contentType string, content []byte, duration int) (*model.Ad, string, error) {
	if !strings.HasPrefix(contentType, "video/") {
		return nil, "", appErrors.NewValidation("only video files are allowed")
	}
	if duration < 1 || duration > 300 {
		return nil, "", appErrors.NewValidation("duration must be between 1 and 300 seconds")
	}

	if _, err := s.CampaignRepo.GetByID(campaignID); err != nil {
		return nil, "", err
	}

	res, err := s.Store.Upload(ctx, campaignID, fileName, contentType, content)
	if err != nil {
		return nil, "", err
	}

	ad := &model.Ad{
		ID:         uuid.NewString(),
		CampaignID: campaignID,
		FileName:   fileName,
		FileURL:    res.Key, // store the key, sign on fetch
		Duration:   duration,
		Checksum:   &res.Checksum,
	}
	if err := s.AdRepo.Create(ad); err != nil {
		return nil, "", err
	}

	return ad, s.IssueAccess(ctx, res.Key), nil
}

// ListCampaignAds returns a campaign's creatives with resolved URLs.
func (s *AdsService) ListCampaignAds(ctx context.Context, campaignID string) ([]*model.Ad, error) {
	ads, err := s.AdRepo.ListByCampaign(campaignID)
	if err != nil {
		return nil, err
	}
	for _, ad := range ads {
		ad.FileURL = s.IssueAccess(ctx, ad.FileURL)
	}
	return ads, nil
}

// DeleteAd removes the record, then the stored object. A failed object
// delete is logged, not surfaced: the record is already gone.
func (s *AdsService) DeleteAd(ctx context.Context, adID string) error {
	ad, err := s.AdRepo.GetByID(adID)
	if err != nil {
		return err
	}
	if ad == nil {
		return appErrors.NewNotFound("ad", adID)
	}

	if err := s.AdRepo.Delete(adID); err != nil {
		return err
	}

	if !strings.HasPrefix(ad.FileURL, "http") {
		if err := s.Store.Delete(ctx, ad.FileURL); err != nil {
			log.Println("⚠️ failed to delete object from store:", err)
		}
	}
	return nil
}
