package models

// NAS share types accepted by the cluster.
const (
	ShareTypeNFS = "NFS"
	ShareTypeSMB = "SMB"
)

// ShareRequest describes one NAS share to register on the cluster.
type ShareRequest struct {
	HostID      string `json:"hostId"`
	ShareType   string `json:"shareType"` // "NFS" or "SMB"
	ExportPoint string `json:"exportPoint"`
	Username    string `json:"username,omitempty"`
	Password    string `json:"password,omitempty"`
}

// ShareRow is one parsed line of the provisioning input CSV.
type ShareRow struct {
	Hostname    string
	ExportPoint string
	ShareType   string
}

// ShareResult records the outcome of provisioning one share row.
type ShareResult struct {
	Row       ShareRow
	ShareID   string
	FilesetID string
	Error     error
}

// ProvisionResult summarizes one provisioning run.
type ProvisionResult struct {
	Provisioned int
	Failed      int
	Results     []ShareResult
}
