package tenants

// Tenant is a studio business. Its id scopes every API call the portal makes.
type Tenant struct {
	ID         string `json:"tenantId"`
	Name       string `json:"tenantName"`
	Domain     string `json:"domain"`               // Host the studio's portal is served from
	FaviconURL string `json:"faviconUrl,omitempty"` // Branding shown by the portal
	LogoURL    string `json:"logoUrl,omitempty"`
}
