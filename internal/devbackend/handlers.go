package devbackend

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/healthcare-marketplace/internal/marketplace"
)

const maxUpload = 10 << 20

type handlers struct {
	b *Backend
}

func (h *handlers) registerUser(w http.ResponseWriter, r *http.Request) {
	var req marketplace.UserRegistration
	if !decode(w, r, &req) {
		return
	}
	sess, err := h.b.RegisterUser(req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *handlers) loginUser(w http.ResponseWriter, r *http.Request) {
	var req marketplace.Credentials
	if !decode(w, r, &req) {
		return
	}
	sess, err := h.b.LoginUser(req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *handlers) profile(w http.ResponseWriter, r *http.Request) {
	u, err := h.b.User(principalFrom(r.Context()).ID)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handlers) updateProfile(w http.ResponseWriter, r *http.Request) {
	var req marketplace.User
	if !decode(w, r, &req) {
		return
	}
	u, err := h.b.UpdateUser(principalFrom(r.Context()).ID, req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *handlers) listUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.Users())
}

func (h *handlers) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteUser(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "User deleted"})
}

func (h *handlers) registerDoctor(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", "could not parse multipart form")
		return
	}
	reg := marketplace.DoctorRegistration{
		Name:           r.FormValue("name"),
		Email:          r.FormValue("email"),
		Password:       r.FormValue("password"),
		Specialization: r.FormValue("specialization"),
		ClinicID:       r.FormValue("clinic"),
	}
	reg.Experience, _ = strconv.Atoi(r.FormValue("experience"))
	reg.Fees, _ = strconv.ParseFloat(r.FormValue("fees"), 64)
	if name := uploadName(r, "image"); name != "" {
		reg.Photo = &marketplace.Upload{Field: "image", Filename: name}
	}

	sess, err := h.b.RegisterDoctor(reg)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

func (h *handlers) loginDoctor(w http.ResponseWriter, r *http.Request) {
	var req marketplace.Credentials
	if !decode(w, r, &req) {
		return
	}
	sess, err := h.b.LoginDoctor(req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess)
}

func (h *handlers) listDoctors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.Doctors())
}

func (h *handlers) getDoctor(w http.ResponseWriter, r *http.Request) {
	d, err := h.b.Doctor(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) updateDoctor(w http.ResponseWriter, r *http.Request) {
	var req marketplace.Doctor
	if !decode(w, r, &req) {
		return
	}
	d, err := h.b.UpdateDoctor(principalFrom(r.Context()).ID, req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (h *handlers) deleteDoctor(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteDoctor(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Doctor deleted"})
}

func (h *handlers) listClinics(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.Clinics())
}

func (h *handlers) getClinic(w http.ResponseWriter, r *http.Request) {
	c, err := h.b.Clinic(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) createClinic(w http.ResponseWriter, r *http.Request) {
	var req marketplace.Clinic
	if !decode(w, r, &req) {
		return
	}
	c, err := h.b.CreateClinic(req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *handlers) updateClinic(w http.ResponseWriter, r *http.Request) {
	var req marketplace.Clinic
	if !decode(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	c, err := h.b.UpdateClinic(req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) deleteClinic(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteClinic(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Clinic deleted"})
}

func (h *handlers) listProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.Products())
}

func (h *handlers) getProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.b.Product(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) createProduct(w http.ResponseWriter, r *http.Request) {
	var req marketplace.Product
	if !decode(w, r, &req) {
		return
	}
	p, err := h.b.CreateProduct(req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (h *handlers) updateProduct(w http.ResponseWriter, r *http.Request) {
	var req marketplace.Product
	if !decode(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	p, err := h.b.UpdateProduct(req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *handlers) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteProduct(chi.URLParam(r, "id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted"})
}

func (h *handlers) listBlogs(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.Blogs())
}

func (h *handlers) getBlog(w http.ResponseWriter, r *http.Request) {
	blog, err := h.b.Blog(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

func (h *handlers) createBlog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", "could not parse multipart form")
		return
	}
	blog, err := h.b.CreateBlog(principalFrom(r.Context()).ID, r.FormValue("title"), r.FormValue("content"), uploadName(r, "image"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, blog)
}

func (h *handlers) updateBlog(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", "could not parse multipart form")
		return
	}
	blog, err := h.b.UpdateBlog(principalFrom(r.Context()).ID, chi.URLParam(r, "id"), r.FormValue("title"), r.FormValue("content"), uploadName(r, "image"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, blog)
}

func (h *handlers) deleteBlog(w http.ResponseWriter, r *http.Request) {
	if err := h.b.DeleteBlog(principalFrom(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Blog deleted"})
}

func (h *handlers) patientAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.PatientAppointments(principalFrom(r.Context()).ID))
}

func (h *handlers) doctorAppointments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.DoctorAppointments(principalFrom(r.Context()).ID))
}

func (h *handlers) checkAvailability(w http.ResponseWriter, r *http.Request) {
	var req marketplace.AvailabilityRequest
	if !decode(w, r, &req) {
		return
	}
	av, err := h.b.CheckAvailability(req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, av)
}

func (h *handlers) bookAppointment(w http.ResponseWriter, r *http.Request) {
	var req marketplace.BookAppointmentRequest
	if !decode(w, r, &req) {
		return
	}
	appt, err := h.b.BookAppointment(principalFrom(r.Context()).ID, req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, appt)
}

func (h *handlers) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	appt, err := h.b.UpdateAppointmentStatus(principalFrom(r.Context()).ID, chi.URLParam(r, "id"), marketplace.AppointmentStatus(req.Status))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, appt)
}

func (h *handlers) cancelAppointment(w http.ResponseWriter, r *http.Request) {
	if err := h.b.CancelAppointment(principalFrom(r.Context()).ID, chi.URLParam(r, "id")); err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: "Appointment cancelled"})
}

func (h *handlers) getCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.Cart(principalFrom(r.Context()).ID))
}

func (h *handlers) addToCart(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.b.AddToCart(principalFrom(r.Context()).ID, req.ProductID, req.Quantity)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) updateCartQuantity(w http.ResponseWriter, r *http.Request) {
	var req cartItemRequest
	if !decode(w, r, &req) {
		return
	}
	c, err := h.b.UpdateCartQuantity(principalFrom(r.Context()).ID, chi.URLParam(r, "productID"), req.Quantity)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) removeFromCart(w http.ResponseWriter, r *http.Request) {
	c, err := h.b.RemoveFromCart(principalFrom(r.Context()).ID, chi.URLParam(r, "productID"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) clearCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.ClearCart(principalFrom(r.Context()).ID))
}

func (h *handlers) createOrder(w http.ResponseWriter, r *http.Request) {
	var req marketplace.CreateOrderRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.b.CreateOrder(principalFrom(r.Context()).ID, req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

func (h *handlers) myOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.OrdersFor(principalFrom(r.Context()).ID))
}

func (h *handlers) allOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.Orders())
}

func (h *handlers) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req statusRequest
	if !decode(w, r, &req) {
		return
	}
	o, err := h.b.UpdateOrderStatus(chi.URLParam(r, "id"), req.Status)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (h *handlers) listLabTests(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.LabTests())
}

func (h *handlers) getLabTest(w http.ResponseWriter, r *http.Request) {
	t, err := h.b.LabTest(chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h *handlers) bookLabTest(w http.ResponseWriter, r *http.Request) {
	var req marketplace.LabBookingRequest
	if !decode(w, r, &req) {
		return
	}
	lb, err := h.b.BookLabTest(principalFrom(r.Context()).ID, req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lb)
}

func (h *handlers) labBookings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.LabBookings(principalFrom(r.Context()).ID))
}

func (h *handlers) uploadReport(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUpload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_form", "could not parse multipart form")
		return
	}
	lb, err := h.b.AttachReport(principalFrom(r.Context()).ID, chi.URLParam(r, "id"), uploadName(r, "report"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func (h *handlers) conversations(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.b.Conversations(principalFrom(r.Context())))
}

func (h *handlers) conversation(w http.ResponseWriter, r *http.Request) {
	c, err := h.b.Conversation(principalFrom(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *handlers) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req marketplace.SendMessageRequest
	if !decode(w, r, &req) {
		return
	}
	msg, err := h.b.Send(principalFrom(r.Context()), req)
	if err != nil {
		writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, msg)
}

// uploadName returns the file name of an uploaded part, or "" when absent.
func uploadName(r *http.Request, field string) string {
	if r.MultipartForm == nil {
		return ""
	}
	files := r.MultipartForm.File[field]
	if len(files) == 0 {
		return ""
	}
	return files[0].Filename
}
