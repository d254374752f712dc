package requests

// SearchRequest tham số sàng lọc một đối tượng với danh sách trừng phạt.
// Name là bắt buộc; các trường còn lại bổ sung bằng chứng cho scorer.
type SearchRequest struct {
	Name    string `form:"name" json:"name" binding:"required"` // Tên cần sàng lọc
	AltName string `form:"alt_name" json:"alt_name,omitempty"`  // Tên khác (AKA)

	Source string `form:"source" json:"source,omitempty"` // Lọc theo danh sách (us_ofac, us_csl, eu_csl, uk_csl)
	Type   string `form:"type" json:"type,omitempty"`     // Lọc theo loại (person, business, ...)

	Address    string `form:"address" json:"address,omitempty"`         // Dòng địa chỉ
	City       string `form:"city" json:"city,omitempty"`               // Thành phố
	State      string `form:"state" json:"state,omitempty"`             // Bang / tỉnh
	PostalCode string `form:"postal_code" json:"postal_code,omitempty"` // Mã bưu chính
	Country    string `form:"country" json:"country,omitempty"`         // Quốc gia

	IDNumber  string `form:"id_number" json:"id_number,omitempty"`   // Số giấy tờ tùy thân
	IDCountry string `form:"id_country" json:"id_country,omitempty"` // Quốc gia cấp giấy tờ

	BirthDate string `form:"birth_date" json:"birth_date,omitempty"` // Ngày sinh (yyyy-mm-dd)
	Gender    string `form:"gender" json:"gender,omitempty"`         // Giới tính

	Email string `form:"email" json:"email,omitempty"` // Email liên hệ
	Phone string `form:"phone" json:"phone,omitempty"` // Số điện thoại

	CryptoAddress  string `form:"crypto_address" json:"crypto_address,omitempty"`   // Địa chỉ ví tiền mã hóa
	CryptoCurrency string `form:"crypto_currency" json:"crypto_currency,omitempty"` // Loại tiền (XBT, ETH...)

	MinMatch float64 `form:"min_match" json:"min_match,omitempty"` // Ngưỡng điểm tối thiểu (mặc định 0.85)
	Limit    int     `form:"limit" json:"limit,omitempty"`         // Số kết quả tối đa (≤ 100)
	Trace    bool    `form:"trace" json:"trace,omitempty"`         // Ghi lại trace chấm điểm
}

// BatchScreenRequest sàng lọc hàng loạt trong một lần gọi
type BatchScreenRequest struct {
	Items []SearchRequest `json:"items" binding:"required,min=1,max=1000"` // Danh sách truy vấn (tối đa 1000)
}

// SimilarityRequest so sánh hai chuỗi tên, phục vụ debug và giải trình
type SimilarityRequest struct {
	A string `form:"a" json:"a" binding:"required"` // Chuỗi thứ nhất
	B string `form:"b" json:"b" binding:"required"` // Chuỗi thứ hai
}
