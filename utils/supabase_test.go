package utils

import "testing"

func TestObjectPathFromURL(t *testing.T) {
	cases := []struct {
		name       string
		url        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{
			name:       "public URL chuẩn",
			url:        "https://abc.supabase.co/storage/v1/object/public/uploads/units/pdfs/x.pdf",
			wantBucket: "uploads",
			wantObject: "units/pdfs/x.pdf",
		},
		{
			name:       "URL không có prefix public",
			url:        "https://abc.supabase.co/storage/v1/object/uploads/avatars/u1.png",
			wantBucket: "uploads",
			wantObject: "avatars/u1.png",
		},
		{
			name:       "bỏ query params",
			url:        "https://abc.supabase.co/storage/v1/object/public/uploads/units/images/a.png?t=123",
			wantBucket: "uploads",
			wantObject: "units/images/a.png",
		},
		{
			name:       "giải mã ký tự escape",
			url:        "https://abc.supabase.co/storage/v1/object/public/uploads/units/pdfs/b%C3%A0i%201.pdf",
			wantBucket: "uploads",
			wantObject: "units/pdfs/bài 1.pdf",
		},
		{
			name:    "URL không phải supabase storage",
			url:     "https://example.com/files/x.pdf",
			wantErr: true,
		},
		{
			name:    "thiếu object path",
			url:     "https://abc.supabase.co/storage/v1/object/public/uploads",
			wantErr: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bucket, object, err := ObjectPathFromURL(tc.url)
			if tc.wantErr {
				if err == nil {
					t.Fatal("mong đợi lỗi")
				}
				return
			}
			if err != nil {
				t.Fatalf("lỗi không mong đợi: %v", err)
			}
			if bucket != tc.wantBucket || object != tc.wantObject {
				t.Errorf("(%s, %s), mong đợi (%s, %s)", bucket, object, tc.wantBucket, tc.wantObject)
			}
		})
	}
}

func TestDeleteFileFromSupabaseEmptyURL(t *testing.T) {
	// URL rỗng nghĩa là không có file, không được coi là lỗi.
	if err := DeleteFileFromSupabase(""); err != nil {
		t.Fatalf("URL rỗng phải trả nil, nhận: %v", err)
	}
}
