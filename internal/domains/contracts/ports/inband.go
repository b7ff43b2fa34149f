package ports

func (r RunResponse) IsError() bool { return r.Error != nil }

func (r RunResponse) ErrorMessage() (string, bool) { return deref(r.Error) }

func (r TestResponse) IsError() bool { return r.Error != nil }

func (r TestResponse) ErrorMessage() (string, bool) { return deref(r.Error) }

func (r VisualizeResponse) IsError() bool { return r.Error != nil }

func (r VisualizeResponse) ErrorMessage() (string, bool) { return deref(r.Error) }

func deref(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}
