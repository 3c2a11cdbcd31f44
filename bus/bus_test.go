package bus

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubComp struct {
	name       string
	notifCount int
}

func (c *stubComp) Name() string {
	return c.name
}

func (c *stubComp) NotifyRecv() {
	c.notifCount++
}

var _ = Describe("Bus", func() {
	var (
		masterComp *stubComp
		deviceComp *stubComp
		masterEP   *Endpoint
		deviceEP   *Endpoint
	)

	BeforeEach(func() {
		masterComp = &stubComp{name: "Master"}
		deviceComp = &stubComp{name: "Device"}
		masterEP = NewEndpoint(masterComp, "Master.Bus")
		deviceEP = NewEndpoint(deviceComp, "Device.Bus")
		Connect("Bus", masterEP, deviceEP)
	})

	It("should latch request lines for the device to sample", func() {
		req := Request{Select: true, Write: true, Address: 3, WriteData: 0xBB}
		masterEP.DriveRequest(req)

		Expect(deviceEP.SampleRequest()).To(Equal(req))
		Expect(deviceComp.notifCount).To(Equal(1))
	})

	It("should latch response lines for the master to sample", func() {
		rsp := Response{Ready: true, ReadData: 0xAA}
		deviceEP.DriveResponse(rsp)

		Expect(masterEP.SampleResponse()).To(Equal(rsp))
		Expect(masterComp.notifCount).To(Equal(1))
	})

	It("should treat driving unchanged values as a no-op", func() {
		req := Request{Select: true}
		masterEP.DriveRequest(req)
		masterEP.DriveRequest(req)

		Expect(deviceComp.notifCount).To(Equal(1))
	})

	It("should reject request drives from the device side", func() {
		Expect(func() {
			deviceEP.DriveRequest(Request{Select: true})
		}).To(Panic())
	})

	It("should reject response drives from the master side", func() {
		Expect(func() {
			masterEP.DriveResponse(Response{Ready: true})
		}).To(Panic())
	})

	It("should hold lines at their quiescent zero value initially", func() {
		Expect(deviceEP.SampleRequest()).To(Equal(Request{}))
		Expect(masterEP.SampleResponse()).To(Equal(Response{}))
	})
})
